package genre

import "context"

type Repository interface {
	List(context context.Context, query string, limit, offset int) ([]*Genre, int, error)
	Get(context context.Context, id int) (*Genre, error)
	GetByName(context context.Context, name string) (*Genre, error)
	Create(context context.Context, genre *Genre) error
	Update(context context.Context, genre *Genre) error
	Delete(context context.Context, id int) error
}
