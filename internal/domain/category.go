package domain

// AllCategories is the pseudo-category that matches every product.
const AllCategories = "all"

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
