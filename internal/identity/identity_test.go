package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "SUPPLIER", NormalizeType("supplier"))
	assert.Equal(t, "SUPPLIER", NormalizeType("Supplier"))
	assert.Equal(t, "SUPPLIER", NormalizeType("SUPPLIER"))
	assert.Equal(t, "WAITER", NormalizeType("wAiTeR"))
	assert.Equal(t, "", NormalizeType(""))
}

func TestMergeProfileFetchedFieldsWin(t *testing.T) {
	stored := User{ID: "1", Name: "Old", Type: "WAITER"}
	fetched := Profile{ID: "2", Name: "New", Type: "admin"}

	merged := MergeProfile(stored, fetched, "3")

	assert.Equal(t, User{ID: "2", Name: "New", Type: "ADMIN"}, merged)
}

func TestMergeProfileFallsBackToStoredThenFallbackID(t *testing.T) {
	stored := User{Name: "Ana", Type: "waiter"}

	merged := MergeProfile(stored, Profile{}, "42")

	assert.Equal(t, "42", merged.ID)
	assert.Equal(t, "Ana", merged.Name)
	assert.Equal(t, "WAITER", merged.Type)
}

func TestMergeProfilePlaceholderWhenNoIDAnywhere(t *testing.T) {
	merged := MergeProfile(User{Name: "Ana"}, Profile{}, "")

	assert.Equal(t, PlaceholderID, merged.ID)
}

func TestMergeProfileStoredPartialWithFetchedRole(t *testing.T) {
	// Stored profile has a name but no type; the refresh resolves the
	// role and the last known id fills the gap.
	stored := User{Name: "Ana"}
	fetched := Profile{Name: "Ana", Type: "supplier"}

	merged := MergeProfile(stored, fetched, "42")

	assert.Equal(t, User{ID: "42", Name: "Ana", Type: "SUPPLIER"}, merged)
	assert.True(t, merged.IsSupplier())
}

func TestCompleteRequiresNameAndType(t *testing.T) {
	assert.False(t, User{ID: "1"}.Complete())
	assert.False(t, User{ID: "1", Name: "Ana"}.Complete())
	assert.False(t, User{ID: "1", Type: "WAITER"}.Complete())
	assert.True(t, User{ID: "1", Name: "Ana", Type: "WAITER"}.Complete())
}
