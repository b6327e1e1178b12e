package lookup

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trims surrounding whitespace",
			input: "  Acme Lab ",
			want:  "acme lab",
		},
		{
			name:  "lowercases",
			input: "ACME LAB",
			want:  "acme lab",
		},
		{
			name:  "already normalized",
			input: "acme lab",
			want:  "acme lab",
		},
		{
			name:  "empty stays empty",
			input: "   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeKey(tt.input))
		})
	}
}

func TestTable_HasGetAdd(t *testing.T) {
	table := Table{}
	table.Add(" Acme Lab ", 42)

	assert.True(t, table.Has("acme lab"))
	assert.True(t, table.Has("ACME LAB  "))
	assert.False(t, table.Has("other lab"))

	id, ok := table.Get("Acme Lab")
	require.True(t, ok)
	assert.Equal(t, 42, id)

	// Empty keys are never stored.
	table.Add("   ", 7)
	assert.Len(t, table, 1)
}

func TestTable_Clone(t *testing.T) {
	original := Table{"acme lab": 1}
	clone := original.Clone()

	clone.Add("new lab", 2)

	assert.Len(t, original, 1)
	assert.Len(t, clone, 2)
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts_lookup.json")

	table := Table{}
	table.Add("Acme Lab", 1)
	table.Add("beta lab", 2)

	require.NoError(t, Save(path, table))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, table, loaded)
}

func TestLoad_NormalizesLegacyKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy_lookup.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"  Acme Lab ": 5}`), 0644))

	loaded, err := Load(path)
	require.NoError(t, err)

	id, ok := loaded.Get("acme lab")
	require.True(t, ok)
	assert.Equal(t, 5, id)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}
