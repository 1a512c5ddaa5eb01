package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const tomlSeed = `# custom tables
[[products]]
id = 1
name = "Desk Lamp"
price = 19.5

[[products]]
id = 2
name = "Stapler"
price = 4.25
`

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{"json object", `{"products": []}`, FormatJSON},
		{"yaml mapping", "products:\n  - id: 1\n", FormatYAML},
		{"brace document", "{products: []}", FormatJSON},
		{"toml tables", tomlSeed, FormatTOML},
		{"toml key values", "title = \"x\"\nlimit = 3\n", FormatTOML},
		{"yaml with json array value", "ids: [1, 2, 3]\n", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.input))
		})
	}
}

func TestFormatOfPrefersExtension(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatOf("seed.yml", []byte(tomlSeed)))
	assert.Equal(t, FormatJSON, FormatOf("SEED.JSON", nil))
	assert.Equal(t, FormatTOML, FormatOf("seed.toml", nil))
	assert.Equal(t, FormatTOML, FormatOf("seed", []byte(tomlSeed)))
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(tomlSeed), FormatTOML)
	require.NoError(t, err)
	rows, ok := doc["products"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "Stapler", rows[1].(map[string]any)["name"])

	doc, err = Decode([]byte(`{"users": [{"id": 7}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Len(t, doc["users"], 1)

	_, err = Decode([]byte("  \n"), FormatYAML)
	require.ErrorIs(t, err, ErrEmpty)

	_, err = Decode([]byte(`{"users": [`), FormatJSON)
	assert.ErrorContains(t, err, "invalid JSON")

	_, err = Decode([]byte("- 1\n- 2\n"), FormatYAML)
	assert.ErrorContains(t, err, "invalid YAML", "a seed must be a table")

	_, err = Decode([]byte("a: 1"), Format("csv"))
	assert.ErrorContains(t, err, "unsupported")
}

func TestSeedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlSeed), 0o600))

	out, err := SeedYAML(path)
	require.NoError(t, err)
	var tables map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &tables))
	require.Len(t, tables["products"], 2)
	assert.Equal(t, "Desk Lamp", tables["products"][0]["name"])
	assert.Equal(t, 1, tables["products"][0]["id"])

	_, err = SeedYAML(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
	_, err = SeedYAML(bad)
	assert.ErrorContains(t, err, bad)
}
