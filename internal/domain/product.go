package domain

// Product is a catalog entry. The catalog is read-only from the storefront's
// perspective; administrative CRUD happens through separate tooling over the
// same record store.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Variants    []string `json:"variants,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
	Engravable  bool     `json:"engravable,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}
