package taxonomy_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amithrb/jobfinder/internal/taxonomy"
)

func TestDefault_EmbeddedTableParses(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	require.NotNil(t, tax)
	assert.Equal(t, 3.0, tax.WeightOf("python"))
}

func TestVariantsOf_SymmetricLookup(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()

	fromCanonical := tax.VariantsOf("go")
	assert.Contains(t, fromCanonical, "go")
	assert.Contains(t, fromCanonical, "golang")

	fromSynonym := tax.VariantsOf("golang")
	assert.ElementsMatch(t, fromCanonical, fromSynonym)
}

func TestVariantsOf_UnknownSkill(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	assert.Equal(t, []string{"basket weaving"}, tax.VariantsOf("  Basket Weaving "))
}

func TestCanonicalOf(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	assert.Equal(t, "go", tax.CanonicalOf("GoLang"))
	assert.Equal(t, "postgres", tax.CanonicalOf("postgresql"))
	assert.Equal(t, "cobol", tax.CanonicalOf("COBOL"))
}

func TestWeightOf_DefaultsForUnknown(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	assert.Equal(t, taxonomy.DefaultWeight, tax.WeightOf("basket weaving"))
}

func TestWeightOf_SynonymSharesWeight(t *testing.T) {
	t.Parallel()
	tax := taxonomy.Default()
	assert.Equal(t, tax.WeightOf("go"), tax.WeightOf("golang"))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "tax.yaml")
	doc := `skills:
  - name: fortran
    synonyms: [f77]
    weight: 2.0
  - name: ada
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	tax, err := taxonomy.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, tax.WeightOf("f77"))
	assert.Equal(t, "fortran", tax.CanonicalOf("f77"))
	assert.Equal(t, taxonomy.DefaultWeight, tax.WeightOf("ada"))
}

func TestLoadFile_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := taxonomy.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skills: [::"), 0o600))
	_, err := taxonomy.LoadFile(path)
	require.Error(t, err)
}
