package api

import "github.com/spec-kit/pos-terminal/internal/identity"

// Component kinds accepted by the order endpoint.
const (
	ComponentProduct = "PRODUCT"
	ComponentCombo   = "COMBO"
)

type loginRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"Token"`
}

// profilePayload accepts the alternate field names the backend may use for
// the same data.
type profilePayload struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Type     string `json:"type"`
	Role     string `json:"role"`
}

func (p profilePayload) fold() identity.Profile {
	return identity.Profile{
		ID:   firstNonEmpty(p.ID, p.UserID),
		Name: firstNonEmpty(p.Name, p.Username),
		Type: firstNonEmpty(p.Type, p.Role),
	}
}

// OrderComponent is one priced entry of an order request.
type OrderComponent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// OrderRequest is the create-order wire body.
type OrderRequest struct {
	Details          string           `json:"details"`
	Components       []OrderComponent `json:"components"`
	DeliveryTime     *string          `json:"deliveryTime"`
	RequestingClient string           `json:"requestingClient"`
	Table            string           `json:"table"`
	ID               *string          `json:"id"`
	RequestTime      *string          `json:"requestTime"`
}

// OrderConfirmation is the successful create-order response.
type OrderConfirmation struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
