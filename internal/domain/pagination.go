package domain

// PaginationParams holds offset-based pagination for list queries, using the
// from/size convention of the public API.
type PaginationParams struct {
	From int
	Size int
}

// Offset returns the row offset, clamped at zero.
func (p PaginationParams) Offset() int {
	if p.From < 0 {
		return 0
	}
	return p.From
}

// Limit returns the page size, falling back to 10 when unset.
func (p PaginationParams) Limit() int {
	if p.Size < 1 {
		return 10
	}
	return p.Size
}
