// pkg/registry/registry.go
package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"visitor-registration/internal/schema"
	"visitor-registration/internal/taxonomy"
)

const Version = "1.0.0"

func LoadRegistry(path string) (*FormRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FormRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SaveRegistry writes reg as indented JSON, creating the directory if needed.
func SaveRegistry(reg *FormRegistry, path string) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Build resolves every pair of the taxonomy in display order.
func Build(now time.Time) (*FormRegistry, error) {
	reg := &FormRegistry{
		Version:     Version,
		LastUpdated: now.UTC().Format(time.RFC3339),
	}
	for _, c := range taxonomy.Categories() {
		for _, v := range taxonomy.VisitorTypes(c) {
			spec, err := schema.Resolve(c, v)
			if err != nil {
				return nil, fmt.Errorf("resolve %s/%s: %w", c, v, err)
			}
			reg.Forms = append(reg.Forms, FormEntry{
				ID:          EntryID(c, v),
				Category:    string(c),
				VisitorType: string(v),
				Spec:        spec,
			})
		}
	}
	return reg, nil
}

// EntryID is the stable slug of a pair, e.g. "business/client-global".
func EntryID(c taxonomy.Category, v taxonomy.VisitorType) string {
	return c.Lower() + "/" + slug(string(v))
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Validate checks reg for structural problems and for drift against the live
// resolver. It returns every problem found.
func Validate(reg *FormRegistry) []string {
	var problems []string
	if len(reg.Forms) == 0 {
		return []string{"registry contains no forms"}
	}

	live, err := Build(time.Now())
	if err != nil {
		return []string{err.Error()}
	}
	expected := make(map[string]FormEntry, len(live.Forms))
	for _, e := range live.Forms {
		expected[e.ID] = e
	}

	seen := make(map[string]bool)
	for _, entry := range reg.Forms {
		if entry.ID == "" {
			problems = append(problems, "form missing required field: id")
			continue
		}
		if seen[entry.ID] {
			problems = append(problems, fmt.Sprintf("duplicate form id: %s", entry.ID))
			continue
		}
		seen[entry.ID] = true

		want, ok := expected[entry.ID]
		if !ok {
			problems = append(problems, fmt.Sprintf("form %s is not in the taxonomy", entry.ID))
			continue
		}
		if entry.Spec == nil {
			problems = append(problems, fmt.Sprintf("form %s missing required field: spec", entry.ID))
			continue
		}
		if !sameSpec(entry.Spec, want.Spec) {
			problems = append(problems, fmt.Sprintf("form %s differs from the resolver", entry.ID))
		}
	}

	for _, e := range live.Forms {
		if !seen[e.ID] {
			problems = append(problems, fmt.Sprintf("form %s is missing", e.ID))
		}
	}
	return problems
}

// sameSpec compares specs by their JSON form so that a spec read back from
// disk matches the one it was exported from.
func sameSpec(a, b *schema.FieldSpec) bool {
	left, err := json.Marshal(a)
	if err != nil {
		return false
	}
	right, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(left, right)
}
