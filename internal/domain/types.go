package domain

// Gateway identifies a hosted-checkout payment provider.
type Gateway string

const (
	GatewayPaystack Gateway = "PAYSTACK"
	GatewayMonnify  Gateway = "MONNIFY"
)

// Gateways lists the selectable providers in display order.
var Gateways = []Gateway{GatewayPaystack, GatewayMonnify}

// Pagination carries paging params for list calls.
type Pagination struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// Normalize clamps page and size to sane bounds.
func (p Pagination) Normalize() Pagination {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// RequestContext carries the signed-in customer for a request.
type RequestContext struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	AccessToken string `json:"-"`
}

// Authenticated reports whether an API token is present.
func (rc RequestContext) Authenticated() bool {
	return rc.AccessToken != ""
}
