// Package roster is the ordered list of named entries behind every visitor,
// person and player list of the wizard.
package roster

import (
	"strings"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/models"
)

// Roster keeps entries in insertion order. Removal never reorders the rest.
type Roster struct {
	label   string
	entries []models.VisitorRecord
}

// New wraps a copy of entries under the given entry label.
func New(label string, entries []models.VisitorRecord) *Roster {
	r := &Roster{label: label, entries: make([]models.VisitorRecord, len(entries))}
	copy(r.entries, entries)
	return r
}

// Label is the entry noun shown to the user ("visitor", "person", "player").
func (r *Roster) Label() string {
	return r.label
}

func (r *Roster) Len() int {
	return len(r.entries)
}

// Add appends a name-only entry. Blank or whitespace-only names are ignored
// and Add reports false.
func (r *Roster) Add(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	r.entries = append(r.entries, models.VisitorRecord{Name: name})
	return true
}

// AddRecord appends a structured row, which may start out empty.
func (r *Roster) AddRecord(record models.VisitorRecord) {
	r.entries = append(r.entries, record)
}

// Update replaces the entry at index in place.
func (r *Roster) Update(index int, record models.VisitorRecord) error {
	if index < 0 || index >= len(r.entries) {
		return errors.NewVisitorIndexOutOfRangeError(index, len(r.entries))
	}
	r.entries[index] = record
	return nil
}

// Remove deletes the entry at index, keeping the order of the others.
func (r *Roster) Remove(index int) error {
	if index < 0 || index >= len(r.entries) {
		return errors.NewVisitorIndexOutOfRangeError(index, len(r.entries))
	}
	r.entries = append(r.entries[:index:index], r.entries[index+1:]...)
	return nil
}

// Entries returns a copy of every entry.
func (r *Roster) Entries() []models.VisitorRecord {
	out := make([]models.VisitorRecord, len(r.entries))
	copy(out, r.entries)
	return out
}

// Named returns the entries with a non-blank name, in order.
func (r *Roster) Named() []models.VisitorRecord {
	out := make([]models.VisitorRecord, 0, len(r.entries))
	for _, e := range r.entries {
		if e.HasName() {
			out = append(out, e)
		}
	}
	return out
}

// RequireNamed fails with NO_VISITORS_ADDED when no entry carries a name.
func (r *Roster) RequireNamed() ([]models.VisitorRecord, error) {
	named := r.Named()
	if len(named) == 0 {
		return nil, errors.NewNoVisitorsAddedError(r.label)
	}
	return named, nil
}
