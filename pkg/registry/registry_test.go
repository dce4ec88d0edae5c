package registry

import (
	"path/filepath"
	"testing"
	"time"

	"visitor-registration/internal/taxonomy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryID(t *testing.T) {
	tests := []struct {
		category    taxonomy.Category
		visitorType taxonomy.VisitorType
		expected    string
	}{
		{taxonomy.CategoryBusiness, taxonomy.VisitorTypeClientGlobal, "business/client-global"},
		{taxonomy.CategoryExternal, taxonomy.VisitorTypeVendorSupplier, "external/vendor-supplier"},
		{taxonomy.CategoryExternal, taxonomy.VisitorTypeThirdPartyStaff, "external/third-party-staff"},
		{taxonomy.CategoryLogistics, taxonomy.VisitorTypeDeliveryCourier, "logistics/delivery-courier"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, EntryID(tt.category, tt.visitorType))
	}
}

func TestBuild_CoversTaxonomy(t *testing.T) {
	reg, err := Build(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	total := 0
	for _, c := range taxonomy.Categories() {
		total += len(taxonomy.VisitorTypes(c))
	}
	assert.Len(t, reg.Forms, total)
	assert.Equal(t, "2024-03-15T09:30:00Z", reg.LastUpdated)
	assert.Empty(t, Validate(reg))
}

func TestSaveLoadValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "form-registry.json")

	reg, err := Build(time.Now())
	require.NoError(t, err)
	require.NoError(t, SaveRegistry(reg, path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Empty(t, Validate(loaded), "a freshly exported registry has no drift")
}

func TestValidate_Empty(t *testing.T) {
	assert.Equal(t, []string{"registry contains no forms"}, Validate(&FormRegistry{}))
}

func TestValidate_Drift(t *testing.T) {
	reg, err := Build(time.Now())
	require.NoError(t, err)

	last := len(reg.Forms) - 1
	missing := reg.Forms[last].ID
	reg.Forms[0].Spec.EntryLabel = "guest"
	reg.Forms[last] = FormEntry{ID: "business/walk-in", Spec: reg.Forms[2].Spec}
	reg.Forms = append(reg.Forms, reg.Forms[1], FormEntry{}, FormEntry{ID: reg.Forms[3].ID + "-x"})

	problems := Validate(reg)
	assert.Contains(t, problems, "form "+reg.Forms[0].ID+" differs from the resolver")
	assert.Contains(t, problems, "form business/walk-in is not in the taxonomy")
	assert.Contains(t, problems, "duplicate form id: "+reg.Forms[1].ID)
	assert.Contains(t, problems, "form missing required field: id")
	assert.Contains(t, problems, "form "+missing+" is missing")
	assert.NotContains(t, problems, "form "+reg.Forms[1].ID+" differs from the resolver")
}
