package author

import "context"

type Repository interface {
	List(context context.Context, query string, limit, offset int) ([]*Author, int, error)
	Get(context context.Context, id int) (*Author, error)
	GetByFullName(context context.Context, fullName string) (*Author, error)
	Create(context context.Context, author *Author) error
	Update(context context.Context, author *Author) error
	Delete(context context.Context, id int) error
}
