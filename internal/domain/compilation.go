package domain

import "context"

// Compilation is a curated, optionally pinned set of events.
// swagger:model Compilation
type Compilation struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Pinned   bool    `json:"pinned"`
	EventIDs []int64 `json:"events"`
}

// CompilationUpdate is a partial update payload. Nil fields are left unchanged.
type CompilationUpdate struct {
	Title    *string
	Pinned   *bool
	EventIDs []int64
}

// CompilationWithEvents bundles a compilation with its member events.
// swagger:model CompilationWithEvents
type CompilationWithEvents struct {
	Compilation *Compilation `json:"compilation"`
	Events      []*Event     `json:"events"`
}

// CompilationRepository defines the interface for compilation storage,
// including the compilation/event membership rows.
type CompilationRepository interface {
	Create(ctx context.Context, comp *Compilation) error
	GetByID(ctx context.Context, id int64) (*Compilation, error)
	List(ctx context.Context, pinned *bool, page PaginationParams) ([]*Compilation, error)
	Update(ctx context.Context, comp *Compilation) error
	// ReplaceEvents rewrites the membership rows for the compilation.
	ReplaceEvents(ctx context.Context, compID int64, eventIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

// CompilationService manages event compilations (admin write, public read).
type CompilationService interface {
	AddCompilation(ctx context.Context, title string, pinned bool, eventIDs []int64) (*CompilationWithEvents, error)
	UpdateCompilation(ctx context.Context, id int64, upd CompilationUpdate) (*CompilationWithEvents, error)
	DeleteCompilation(ctx context.Context, id int64) error
	ListCompilations(ctx context.Context, pinned *bool, page PaginationParams) ([]*CompilationWithEvents, error)
	GetCompilation(ctx context.Context, id int64) (*CompilationWithEvents, error)
}
