package domain

import "time"

// ShippingInfo is the address block collected during checkout.
type ShippingInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zipcode string `json:"zipcode"`
}

// PaymentInfo is the card block collected during checkout. Only a masked
// reference is ever persisted.
type PaymentInfo struct {
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// Order is the record produced by a completed checkout.
type Order struct {
	OrderID   string       `json:"order_id"`
	Items     []CartItem   `json:"items"`
	Subtotal  float64      `json:"subtotal"`
	Tax       float64      `json:"tax"`
	Total     float64      `json:"total"`
	Shipping  ShippingInfo `json:"shipping"`
	CardRef   string       `json:"card_ref"`
	CreatedAt time.Time    `json:"created_at"`
}

// MaskCard keeps only the last four digits of a card number.
func MaskCard(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return "****" + cardNumber[len(cardNumber)-4:]
}
