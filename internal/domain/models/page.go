package models

// Page is one page of a paginated API listing.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalPages    int
	TotalElements int
	Last          bool
}

// HasNext reports whether another page can be fetched.
func (p Page[T]) HasNext() bool {
	if p.Last {
		return false
	}
	if p.TotalPages > 0 {
		return p.Number+1 < p.TotalPages
	}
	return len(p.Items) > 0 && len(p.Items) >= p.Size
}
