package objective

import (
	"context"
)

// Repository defines the interface for objective catalog persistence.
// This interface is implemented by the infrastructure layer; the domain
// layer has no knowledge of the actual storage mechanism.
type Repository interface {
	// Create persists a new definition. The definition is validated by the
	// caller before it reaches the repository.
	Create(ctx context.Context, def *Definition) error

	// Get returns a definition by ID, or shared.ErrObjectiveNotFound.
	Get(ctx context.Context, id string) (*Definition, error)

	// List returns definitions, optionally filtered to active ones,
	// ordered by creation time descending.
	List(ctx context.Context, activeOnly bool) ([]*Definition, error)

	// Update persists changes to an existing definition.
	Update(ctx context.Context, def *Definition) error

	// Delete permanently removes a definition. Progress rows and ledger
	// entries that reference it are deliberately left in place so that
	// historical records survive definition deletion.
	Delete(ctx context.Context, id string) error
}
