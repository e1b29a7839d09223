package account

import (
	"context"

	domain "messhall/internal/domain/account"
)

// Store persists Account state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
	GetByRollNo(ctx context.Context, rollNo string) (domain.Account, error)
	Save(ctx context.Context, value domain.Account) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Account, error)
	CountByRole(ctx context.Context, role string) (int, error)
}

// ListFilter carries filtering parameters for List operations.
// A zero Limit returns every matching row.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
}
