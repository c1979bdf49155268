package git

import "testing"

func TestFormatCommitMessage(t *testing.T) {
	tests := []struct {
		name    string
		ctype   string
		scope   string
		subject string
		body    string
		want    string
	}{
		{
			name:    "simple",
			ctype:   "feat",
			subject: "add note",
			want:    "feat: add note\n\nRecorded-by: murmur",
		},
		{
			name:    "with scope",
			ctype:   "fix",
			scope:   "notes",
			subject: "repair record",
			want:    "fix(notes): repair record\n\nRecorded-by: murmur",
		},
		{
			name:    "with body",
			ctype:   "",
			subject: "import",
			body:    "Imported 3 files.\n",
			want:    "chore: import\n\nImported 3 files.\n\nRecorded-by: murmur",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCommitMessage(tt.ctype, tt.scope, tt.subject, tt.body)
			if got != tt.want {
				t.Errorf("FormatCommitMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppendFooter(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{
			name: "plain",
			msg:  "simple message",
			want: "simple message\n\nRecorded-by: murmur",
		},
		{
			name: "already has newline",
			msg:  "line 1\n",
			want: "line 1\n\nRecorded-by: murmur",
		},
		{
			name: "already has footer",
			msg:  "x\n\nRecorded-by: murmur",
			want: "x\n\nRecorded-by: murmur",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendFooter(tt.msg)
			if got != tt.want {
				t.Errorf("AppendFooter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordCommitMessage(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"add note 42", "feat(notes): add note 42\n\nRecorded-by: murmur"},
		{"remove note 42", "chore(notes): remove note 42\n\nRecorded-by: murmur"},
		{"", "chore(notes): update notes record\n\nRecorded-by: murmur"},
		{"docs: explain", "docs: explain\n\nRecorded-by: murmur"},
	}
	for _, tt := range tests {
		if got := RecordCommitMessage(tt.reason); got != tt.want {
			t.Errorf("RecordCommitMessage(%q) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}
