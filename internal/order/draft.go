// Package order holds the order-entry draft built on the orders view
// before submission.
package order

import (
	"math"

	"github.com/spec-kit/pos-terminal/internal/api"
)

// MenuItem is a purchasable entry of the menu. Kind is PRODUCT or COMBO.
type MenuItem struct {
	ID    string
	Name  string
	Price float64
	Kind  string
}

// Line pairs a menu item with its quantity. Quantity never drops below 1.
type Line struct {
	Item     MenuItem
	Quantity int
}

// Draft is the mutable state of the create-order dialog. It starts empty,
// is edited in place and resets on submission or cancellation.
type Draft struct {
	TableNumber string
	Lines       []Line
	Notes       string
}

// NewDraft returns an empty draft.
func NewDraft() *Draft {
	return &Draft{}
}

// Add selects a menu item. Selecting an item already on the draft
// increments its line instead of adding a second one.
func (d *Draft) Add(item MenuItem) {
	for i := range d.Lines {
		if d.Lines[i].Item.ID == item.ID {
			d.Lines[i].Quantity++
			return
		}
	}
	d.Lines = append(d.Lines, Line{Item: item, Quantity: 1})
}

// SetQuantity updates a line's quantity, clamped to a minimum of 1.
// Unknown item ids are ignored.
func (d *Draft) SetQuantity(itemID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range d.Lines {
		if d.Lines[i].Item.ID == itemID {
			d.Lines[i].Quantity = quantity
			return
		}
	}
}

// Remove drops a line entirely.
func (d *Draft) Remove(itemID string) {
	for i := range d.Lines {
		if d.Lines[i].Item.ID == itemID {
			d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
			return
		}
	}
}

// Total is the sum of price times quantity over all lines, rounded to two
// decimals for display.
func (d *Draft) Total() float64 {
	var total float64
	for _, line := range d.Lines {
		total += line.Item.Price * float64(line.Quantity)
	}
	return math.Round(total*100) / 100
}

// Empty reports whether nothing has been selected yet.
func (d *Draft) Empty() bool {
	return len(d.Lines) == 0
}

// Reset returns the draft to its initial empty state.
func (d *Draft) Reset() {
	d.TableNumber = ""
	d.Lines = nil
	d.Notes = ""
}

// Request builds the create-order wire body. Each line expands into
// quantity repeated components, since the wire format carries no quantity
// field.
func (d *Draft) Request() api.OrderRequest {
	var components []api.OrderComponent
	for _, line := range d.Lines {
		for i := 0; i < line.Quantity; i++ {
			components = append(components, api.OrderComponent{
				ID:   line.Item.ID,
				Type: line.Item.Kind,
			})
		}
	}
	return api.OrderRequest{
		Details:          d.Notes,
		Components:       components,
		DeliveryTime:     nil,
		RequestingClient: "",
		Table:            d.TableNumber,
		ID:               nil,
		RequestTime:      nil,
	}
}
