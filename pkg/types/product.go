package types

import "time"

// Product is the unit of the catalog. Sku is the only stable identifier and
// the sole key used for detail lookups.
type Product struct {
	Sku         string   `json:"sku"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand,omitempty"`
	Category    string   `json:"category"`
	SubCategory string   `json:"subCategory"`
	ImageUrls   []string `json:"imageUrls"`
	Price       int      `json:"price"`
	Stock       int      `json:"stock"`
	Created     int64    `json:"created,omitempty"`
	LastUpdated int64    `json:"lastUpdated,omitempty"`
	Deleted     bool     `json:"deleted,omitempty"`
}

// Normalize makes a product safe for the rest of the system. ImageUrls is
// never nil after this call, so render paths can index into it without
// checking for absence. Runs once at every data boundary (admin api, rabbit
// consumer, disk load).
func (p *Product) Normalize() {
	if p.ImageUrls == nil {
		p.ImageUrls = []string{}
	}
	if p.Created == 0 {
		p.Created = time.Now().Unix()
	}
	p.LastUpdated = time.Now().Unix()
}

func (p *Product) IsDeleted() bool {
	return p.Deleted
}

// SearchText returns the text fields that feed the token index.
func (p *Product) SearchText() []string {
	return []string{p.Title, p.Brand, p.Category, p.SubCategory}
}
