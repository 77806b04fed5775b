package domain

// CartItem records a selected product with its price snapshot taken at
// add-time. Prices are not re-synced to later catalog changes.
type CartItem struct {
	ProductID    string  `json:"product_id"`
	ProductName  string  `json:"product_name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	ImgLink      string  `json:"img_link"`
	CategoryLeaf string  `json:"category_leaf"`
}

// Cart holds cart items in insertion order plus the derived total.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// Recompute refreshes the derived total from the item list.
func (c *Cart) Recompute() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.Total = total
}
