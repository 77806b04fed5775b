package domain

// Product is a single catalog entry, immutable once fetched.
type Product struct {
	ProductID          string   `json:"product_id"`
	ProductName        string   `json:"product_name"`
	Category           string   `json:"category"`
	CategoryPath       []string `json:"category_path"`
	CategoryLeaf       string   `json:"category_leaf"`
	CategoryTop        string   `json:"category_top"`
	DiscountedPrice    float64  `json:"discounted_price"`
	ActualPrice        float64  `json:"actual_price"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Rating             float64  `json:"rating"`
	RatingCount        int      `json:"rating_count"`
	AboutProduct       string   `json:"about_product"`
	ImgLink            string   `json:"img_link"`
	ProductLink        string   `json:"product_link"`
}

// DeriveCategoryFields fills the derived category fields from the raw
// category string when the feed left them empty. The backend normally
// precomputes them; re-deriving keeps older feed rows usable.
func (p *Product) DeriveCategoryFields() {
	if p.Category == "" {
		return
	}
	parsed := ParseCategory(p.Category)
	if len(p.CategoryPath) == 0 {
		p.CategoryPath = parsed.Path
	}
	if p.CategoryLeaf == "" {
		p.CategoryLeaf = FormatDisplayName(parsed.Levels.Leaf)
	}
	if p.CategoryTop == "" {
		p.CategoryTop = FormatDisplayName(parsed.Levels.Top)
	}
}

// Filters narrows a product listing. Nil numeric fields and an empty
// category leave that criterion unconstrained.
type Filters struct {
	Category  string   `json:"category"`
	MinPrice  *float64 `json:"min_price"`
	MaxPrice  *float64 `json:"max_price"`
	MinRating *float64 `json:"min_rating"`
}
