// Package neighborhood canonicalizes free-text neighborhood names
// against a static alias table.
package neighborhood

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// AliasEntry maps one canonical neighborhood name to its known
// misspellings and variants, all lower-cased.
type AliasEntry struct {
	Canonical string   `json:"canonical"`
	Variants  []string `json:"variants"`
}

// AliasTable is an ordered list of alias entries. Order matters: when
// two entries claim the same variant, the first one declared wins.
type AliasTable []AliasEntry

// Normalize trims and lower-cases raw, then returns the canonical name
// of the first entry listing it as a variant. Unknown neighborhoods
// pass through lower-cased so aggregate reports stay complete.
func (t AliasTable) Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return ""
	}
	for _, entry := range t {
		for _, variant := range entry.Variants {
			if name == variant {
				return entry.Canonical
			}
		}
	}
	return name
}

// Load reads an alias table from a JSON file. The file holds an array
// of entries, not an object, so declaration order survives decoding.
func Load(path string) (AliasTable, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table AliasTable
	if err := json.Unmarshal(blob, &table); err != nil {
		return nil, fmt.Errorf("alias table %s: %w", path, err)
	}
	for i := range table {
		table[i].Canonical = strings.ToLower(strings.TrimSpace(table[i].Canonical))
		for j, variant := range table[i].Variants {
			table[i].Variants[j] = strings.ToLower(strings.TrimSpace(variant))
		}
	}
	return table, nil
}

// Default is the mapping for the delivery area the source data comes
// from, used when no alias file is configured.
func Default() AliasTable {
	return AliasTable{
		{Canonical: "fontanella", Variants: []string{"fontanela", "fontanella", "fortanella"}},
		{Canonical: "jardim dona luiza", Variants: []string{"jardim dona luiza", "jardim d. luiza", "dona luiza"}},
		{Canonical: "nova jaguariuna", Variants: []string{"nova jaguariúna", "nova jaguariuna"}},
		{Canonical: "centro", Variants: []string{"centro", "centro da cidade"}},
		{Canonical: "zambom", Variants: []string{"zambom", "jardim zambom"}},
		{Canonical: "capotuna", Variants: []string{"capotuna"}},
		{Canonical: "triunfo", Variants: []string{"triunfo", "jardim triunfo"}},
		{Canonical: "nassif", Variants: []string{"nassif", "nucleo res. dr. joao a nassif"}},
		{Canonical: "capela de santo antonio", Variants: []string{"capela de santo antonio", "capela santo antonio"}},
		{Canonical: "chácara primavera", Variants: []string{"chácara primavera", "chacara primavera", "primavera"}},
		{Canonical: "jardim europa", Variants: []string{"jardim europa", "europa"}},
		{Canonical: "jardim mauá ii", Variants: []string{"jardim mauá ii", "jardim maua ii", "mauá ii"}},
		{Canonical: "jardim santa cruz", Variants: []string{"jardim santa cruz", "santa cruz"}},
		{Canonical: "roseira de cima", Variants: []string{"roseira de cima", "roseira"}},
		{Canonical: "tamboré", Variants: []string{"tamboré", "tambore"}},
	}
}
