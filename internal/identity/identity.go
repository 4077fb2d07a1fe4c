package identity

import "strings"

// RoleSupplier is the restricted role confined to a single view.
const RoleSupplier = "SUPPLIER"

// PlaceholderID is stored when the backend never supplied a user id.
const PlaceholderID = "unknown"

// User is the in-memory identity of the signed-in operator. Type is always
// upper-case when present; every write site normalizes it.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// IsSupplier reports whether the user carries the restricted role.
func (u User) IsSupplier() bool {
	return u.Type == RoleSupplier
}

// Complete reports whether both name and type are known, i.e. no profile
// refresh is needed.
func (u User) Complete() bool {
	return u.Name != "" && u.Type != ""
}

// Profile is a remote profile payload after field-name folding.
type Profile struct {
	ID   string
	Name string
	Type string
}

// NormalizeType canonicalizes a role string to upper case. Empty input
// passes through unchanged.
func NormalizeType(raw string) string {
	if raw == "" {
		return ""
	}
	return strings.ToUpper(raw)
}

// MergeProfile combines a stored partial user with a freshly fetched
// profile. Fetched fields win when present, stored values fill the gaps and
// fallbackID resolves a still-missing id. The merge is pure; persisting the
// result is the caller's call.
func MergeProfile(stored User, fetched Profile, fallbackID string) User {
	merged := User{
		ID:   firstNonEmpty(fetched.ID, stored.ID, fallbackID),
		Name: firstNonEmpty(fetched.Name, stored.Name),
		Type: NormalizeType(firstNonEmpty(fetched.Type, stored.Type)),
	}
	if merged.ID == "" {
		merged.ID = PlaceholderID
	}
	return merged
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
