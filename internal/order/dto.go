package order

import "github.com/MikeMC777/leathershop/internal/domain"

// CustomerRequest is the contact block of a checkout.
// swagger:model CustomerRequest
type CustomerRequest struct {
	Name    string `json:"name"    example:"Rahim Uddin"`
	Phone   string `json:"phone"   example:"01712345678"`
	Address string `json:"address" example:"House 12, Road 5, Dhanmondi"`
	Zone    string `json:"zone"    example:"inner"`
	Note    string `json:"note,omitempty"`
}

func (r CustomerRequest) Customer() Customer {
	return Customer{Name: r.Name, Phone: r.Phone, Address: r.Address, Zone: Zone(r.Zone), Note: r.Note}
}

// QuickOrderRequest orders one product without going through the cart.
// swagger:model QuickOrderRequest
type QuickOrderRequest struct {
	CustomerRequest
	ProductID string `json:"product_id" example:"p1"`
	Variation string `json:"variation"  example:"41"`
	Quantity  int    `json:"quantity"   example:"1"`
}

// UpdateStatusRequest changes the status of an order.
// swagger:model UpdateStatusRequest
type UpdateStatusRequest struct {
	Status string `json:"status" example:"Shipped"`
}

// TrackResponse is the result of an order lookup.
// swagger:model TrackResponse
type TrackResponse struct {
	Found bool          `json:"found"`
	Order *domain.Order `json:"order,omitempty"`
	Error string        `json:"error,omitempty"`
}
