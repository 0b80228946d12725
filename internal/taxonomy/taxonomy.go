// Package taxonomy maps canonical skill names to synonym sets and
// importance weights. The default table is embedded; deployments can
// override it with a YAML file.
package taxonomy

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var defaultTable []byte

// DefaultWeight applies to skills absent from the weight table.
const DefaultWeight = 1.0

type yamlEntry struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
	Weight   float64  `yaml:"weight"`
}

type yamlTable struct {
	Skills []yamlEntry `yaml:"skills"`
}

// Taxonomy is a static, immutable alias-and-weight table loaded once at
// process start.
type Taxonomy struct {
	// groups maps every member of an alias group (lowercased) to the full
	// group: the canonical name plus all synonyms.
	groups map[string][]string
	// canonical maps every member to the group's canonical display name.
	canonical map[string]string
	weights   map[string]float64
}

// Default returns the taxonomy built from the embedded table.
func Default() *Taxonomy {
	t, err := parse(defaultTable)
	if err != nil {
		// The embedded table is validated by tests; a parse failure here is
		// a build defect, not a runtime condition.
		panic(fmt.Sprintf("taxonomy: embedded table invalid: %v", err))
	}
	return t
}

// LoadFile reads a YAML taxonomy table from path.
func LoadFile(path string) (*Taxonomy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("taxonomy load: %w", err)
	}
	return parse(b)
}

func parse(b []byte) (*Taxonomy, error) {
	var doc yamlTable
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("taxonomy yaml: %w", err)
	}
	t := &Taxonomy{
		groups:    make(map[string][]string),
		canonical: make(map[string]string),
		weights:   make(map[string]float64),
	}
	for _, e := range doc.Skills {
		name := strings.ToLower(strings.TrimSpace(e.Name))
		if name == "" {
			continue
		}
		group := []string{name}
		for _, s := range e.Synonyms {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" && s != name {
				group = append(group, s)
			}
		}
		w := e.Weight
		if w <= 0 {
			w = DefaultWeight
		}
		for _, member := range group {
			t.groups[member] = group
			t.canonical[member] = name
			t.weights[member] = w
		}
	}
	return t, nil
}

// VariantsOf returns the skill itself plus every member of its alias group.
// Lookup is symmetric: a synonym yields the canonical name and all sibling
// synonyms. Unknown skills yield a one-element set.
func (t *Taxonomy) VariantsOf(skill string) []string {
	key := strings.ToLower(strings.TrimSpace(skill))
	if group, ok := t.groups[key]; ok {
		out := make([]string, len(group))
		copy(out, group)
		return out
	}
	return []string{key}
}

// CanonicalOf returns the preferred display name for skill, or the
// lowercased input when the skill is not in the table.
func (t *Taxonomy) CanonicalOf(skill string) string {
	key := strings.ToLower(strings.TrimSpace(skill))
	if c, ok := t.canonical[key]; ok {
		return c
	}
	return key
}

// WeightOf looks up the importance weight by lowercased exact name,
// defaulting to DefaultWeight when absent.
func (t *Taxonomy) WeightOf(skill string) float64 {
	key := strings.ToLower(strings.TrimSpace(skill))
	if w, ok := t.weights[key]; ok {
		return w
	}
	return DefaultWeight
}
