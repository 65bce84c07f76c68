package models

// PricingOption is one way a vehicle can be booked (daily, hourly, airport transfer...).
type PricingOption struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Unit     string  `json:"unit,omitempty"`
}

type Vehicle struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Make           string          `json:"make,omitempty"`
	Model          string          `json:"model,omitempty"`
	Year           int             `json:"year,omitempty"`
	Seats          int             `json:"seats,omitempty"`
	City           string          `json:"city,omitempty"`
	Images         []string        `json:"images,omitempty"`
	Description    string          `json:"description,omitempty"`
	PricingOptions []PricingOption `json:"pricingOptions,omitempty"`
}

// CoverImage is the first image, or empty.
func (v Vehicle) CoverImage() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}

// PricingOption looks up an option by id.
func (v Vehicle) PricingOption(id string) (PricingOption, bool) {
	for _, p := range v.PricingOptions {
		if p.ID == id {
			return p, true
		}
	}
	return PricingOption{}, false
}
