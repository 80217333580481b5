package review

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	ListByBook(context context.Context, bookID, limit, offset int) ([]*Review, int, error)
	Get(context context.Context, id int) (*Review, error)
	GetByBookAndAccount(context context.Context, bookID int, accountID uuid.UUID) (*Review, error)
	Create(context context.Context, review *Review) error
	Update(context context.Context, review *Review) error
	Delete(context context.Context, id int) error
}
