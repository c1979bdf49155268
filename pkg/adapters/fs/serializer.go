package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/murmur/pkg/core"
)

// Serializer defines how the notes record is encoded on disk.
type Serializer interface {
	// Parse decodes a record into the ordered collection.
	Parse(data []byte) ([]core.Note, error)
	// Serialize encodes the ordered collection.
	Serialize(notes []core.Note) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": JSONSerializer{},
		".yaml": YAMLSerializer{},
		".yml":  YAMLSerializer{},
	}
}

// SerializerFor picks the serializer for a record path. Unknown extensions use JSON.
func SerializerFor(path string, registry map[string]Serializer) Serializer {
	if registry == nil {
		registry = DefaultSerializers()
	}
	if s, ok := registry[strings.ToLower(filepath.Ext(path))]; ok {
		return s
	}
	return JSONSerializer{}
}

// --- JSON Serializer ---

// JSONSerializer stores the record as an ordered JSON array of
// {"id","createdAt","content"} objects.
type JSONSerializer struct{}

func (JSONSerializer) Parse(data []byte) ([]core.Note, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("invalid json: empty record")
	}
	var notes []core.Note
	if err := json.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return notes, nil
}

func (JSONSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	return json.MarshalIndent(notes, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer stores the record as a YAML sequence with the same fields.
type YAMLSerializer struct{}

func (YAMLSerializer) Parse(data []byte) ([]core.Note, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("invalid yaml: empty record")
	}
	var notes []core.Note
	if err := yaml.Unmarshal(data, &notes); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	return notes, nil
}

func (YAMLSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(notes); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
