package models

// CartItem is a product snapshot plus a quantity. A cart holds at
// most one item per distinct product id; a quantity below 1 removes
// the line.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns the price of this line (unit price × quantity).
func (ci CartItem) LineTotal() float64 {
	return ci.Product.Price * float64(ci.Quantity)
}
