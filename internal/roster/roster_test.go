package roster

import (
	"testing"

	"visitor-registration/internal/common/errors"
	"visitor-registration/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []models.VisitorRecord) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestRoster_AddIgnoresBlankNames(t *testing.T) {
	r := New("player", nil)

	assert.True(t, r.Add("  Asha "))
	assert.False(t, r.Add(""))
	assert.False(t, r.Add("   \t"))
	assert.True(t, r.Add("Ravi"))

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"Asha", "Ravi"}, names(r.Entries()))
	assert.Equal(t, "player", r.Label())
}

func TestRoster_RemoveKeepsOrder(t *testing.T) {
	r := New("visitor", nil)
	for _, n := range []string{"A", "B", "C", "D"} {
		r.Add(n)
	}

	require.NoError(t, r.Remove(1))
	assert.Equal(t, []string{"A", "C", "D"}, names(r.Entries()))

	require.NoError(t, r.Remove(2))
	assert.Equal(t, []string{"A", "C"}, names(r.Entries()))

	require.NoError(t, r.Remove(0))
	assert.Equal(t, []string{"C"}, names(r.Entries()))
}

func TestRoster_IndexOutOfRange(t *testing.T) {
	r := New("person", []models.VisitorRecord{{Name: "A"}})

	for _, idx := range []int{-1, 1, 5} {
		err := r.Remove(idx)
		assert.True(t, errors.HasCode(err, errors.ErrCodeVisitorIndexOutOfRange))
		err = r.Update(idx, models.VisitorRecord{Name: "X"})
		assert.True(t, errors.HasCode(err, errors.ErrCodeVisitorIndexOutOfRange))
	}
	assert.Equal(t, 1, r.Len())
}

func TestRoster_StructuredRows(t *testing.T) {
	r := New("visitor", nil)
	r.AddRecord(models.VisitorRecord{})
	r.AddRecord(models.VisitorRecord{})

	require.NoError(t, r.Update(1, models.VisitorRecord{Name: "Meera", Gender: models.GenderFemale, Relationship: "Sister"}))

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsEmpty())
	assert.Equal(t, "Sister", entries[1].Relationship)
	assert.Equal(t, []string{"Meera"}, names(r.Named()))
}

func TestRoster_RequireNamed(t *testing.T) {
	r := New("player", []models.VisitorRecord{{Name: " "}, {}})
	_, err := r.RequireNamed()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNoVisitorsAdded))
	assert.Contains(t, err.(*errors.StandardError).Message, "player")

	r.Add("Kabir")
	named, err := r.RequireNamed()
	require.NoError(t, err)
	assert.Equal(t, []string{"Kabir"}, names(named))
}

func TestRoster_CopiesInput(t *testing.T) {
	src := []models.VisitorRecord{{Name: "A"}}
	r := New("visitor", src)
	src[0].Name = "changed"

	out := r.Entries()
	out[0].Name = "also changed"
	assert.Equal(t, "A", r.Entries()[0].Name)
}
