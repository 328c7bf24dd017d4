package domain

import "time"

type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	SalePrice   float64   `json:"salePrice,omitempty"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Colors      []string  `json:"colors"`
	Sizes       []string  `json:"sizes"`
	StockCount  int       `json:"stockCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EffectivePrice is what a cart line snapshots at add time: the sale
// price when one is set, the list price otherwise.
func (p Product) EffectivePrice() float64 {
	if p.SalePrice > 0 && p.SalePrice < p.Price {
		return p.SalePrice
	}
	return p.Price
}
