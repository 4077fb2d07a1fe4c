package domain

// ComponentKind distinguishes single products from combos on the menu.
type ComponentKind string

const (
	ComponentKindProduct ComponentKind = "PRODUCT"
	ComponentKindCombo   ComponentKind = "COMBO"
)

// MenuItem is a purchasable menu entry.
type MenuItem struct {
	ID        string
	Name      string
	Price     float64
	Kind      ComponentKind
	Available bool
}
