package git

import (
	"strings"
)

// CommitType constants for semantic commits
const (
	CommitTypeFeat  = "feat"
	CommitTypeFix   = "fix"
	CommitTypeChore = "chore"
)

// Footer marks commits written by murmur.
const Footer = "Recorded-by: murmur"

// FormatCommitMessage builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Recorded-by: murmur
func FormatCommitMessage(ctype, scope, subject, body string) string {
	var sb strings.Builder

	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)

	if scope != "" {
		sb.WriteString("(")
		sb.WriteString(scope)
		sb.WriteString(")")
	}

	sb.WriteString(": ")
	sb.WriteString(subject)

	if body != "" {
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(body))
	}

	sb.WriteString("\n\n")
	sb.WriteString(Footer)

	return sb.String()
}

// AppendFooter appends the footer to an arbitrary message if not present.
func AppendFooter(msg string) string {
	if strings.Contains(msg, Footer) {
		return msg
	}

	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	if !strings.HasSuffix(msg, "\n\n") {
		msg += "\n"
	}

	return msg + Footer
}

// RecordCommitMessage turns a change reason into the commit message for a
// record overwrite. Additions are features; anything else is a chore.
func RecordCommitMessage(reason string) string {
	if reason == "" {
		return FormatCommitMessage(CommitTypeChore, "notes", "update notes record", "")
	}
	if strings.HasPrefix(reason, "add ") {
		return FormatCommitMessage(CommitTypeFeat, "notes", reason, "")
	}
	if strings.Contains(reason, ": ") {
		// Already conventional.
		return AppendFooter(reason)
	}
	return FormatCommitMessage(CommitTypeChore, "notes", reason, "")
}
