package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/frbgen/internal/ir"
)

// marshalFile converts an ApiFile to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON so ir_json is byte-stable across writers.
func marshalFile(file *ir.ApiFile) (string, error) {
	data, err := ir.MarshalCanonical(file)
	if err != nil {
		return "", fmt.Errorf("marshal api file: %w", err)
	}
	return string(data), nil
}

// unmarshalFile parses stored JSON TEXT back into an ApiFile.
// The type union is decoded through its kind discriminator.
func unmarshalFile(data string) (*ir.ApiFile, error) {
	file := ir.NewApiFile()
	if err := json.Unmarshal([]byte(data), file); err != nil {
		return nil, fmt.Errorf("unmarshal api file: %w", err)
	}
	if file.Funcs == nil {
		file.Funcs = []ir.ApiFunc{}
	}
	if file.StructPool == nil {
		file.StructPool = map[string]ir.ApiStruct{}
	}
	return file, nil
}
