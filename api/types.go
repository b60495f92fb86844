package api

import (
	"context"

	"todo-api/domain"
)

// DataAccess abstracts persistence for handlers.
type DataAccess interface {
	ListLists(ctx context.Context) ([]domain.ListSummary, error)
	CreateList(ctx context.Context, name string) (string, error)
	GetList(ctx context.Context, id string) (*domain.List, error)
	DeleteList(ctx context.Context, id string) (bool, error)
	CreateItem(ctx context.Context, listID, label string) (*domain.List, error)
	SetCheckedState(ctx context.Context, listID, itemID string, checked bool) (*domain.List, error)
	DeleteItem(ctx context.Context, listID, itemID string) (*domain.List, error)
}

// NotFoundError is implemented by DataAccess errors meaning the addressed
// list or item does not exist. Handlers map it to 404 and do not log it;
// every other store failure is unexpected.
type NotFoundError interface {
	error
	NotFound()
}
