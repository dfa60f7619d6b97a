package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHashDeterminism(t *testing.T) {
	h1, err := FileHash(samplePointFile())
	require.NoError(t, err)

	h2, err := FileHash(samplePointFile())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "FileHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestFileHashIndependentOfPoolInsertionOrder(t *testing.T) {
	a := NewApiFile()
	a.StructPool["A"] = ApiStruct{Name: "A", Fields: []ApiField{}, IsFieldsNamed: true}
	a.StructPool["B"] = ApiStruct{Name: "B", Fields: []ApiField{}, IsFieldsNamed: true}

	b := NewApiFile()
	b.StructPool["B"] = ApiStruct{Name: "B", Fields: []ApiField{}, IsFieldsNamed: true}
	b.StructPool["A"] = ApiStruct{Name: "A", Fields: []ApiField{}, IsFieldsNamed: true}

	assert.Equal(t, MustFileHash(a), MustFileHash(b))
}

func TestFileHashChangesWithParameterOrder(t *testing.T) {
	f1 := NewApiFile()
	f1.Funcs = []ApiFunc{{
		Name:   "add",
		Inputs: []ApiField{{Name: "a", Type: Primitive{Kind: I32}}, {Name: "b", Type: Primitive{Kind: I64}}},
		Output: Primitive{Kind: I32},
	}}

	f2 := NewApiFile()
	f2.Funcs = []ApiFunc{{
		Name:   "add",
		Inputs: []ApiField{{Name: "b", Type: Primitive{Kind: I64}}, {Name: "a", Type: Primitive{Kind: I32}}},
		Output: Primitive{Kind: I32},
	}}

	assert.NotEqual(t, MustFileHash(f1), MustFileHash(f2), "parameter order is significant")
}

func TestFileHashNil(t *testing.T) {
	_, err := FileHash(nil)
	assert.Error(t, err)
}

func TestSourceHashDomainSeparation(t *testing.T) {
	content := []byte("pub fn a() -> Result<()> {}")
	assert.Equal(t, SourceHash(content), SourceHash(content))
	assert.NotEqual(t, SourceHash(content), hashWithDomain(DomainApiFile, content))
}

func TestMustFileHashPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustFileHash(nil)
	})
}
