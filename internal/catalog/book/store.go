package book

import (
	"context"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
)

type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error)
	ListByAuthor(context context.Context, authorID, limit, offset int) ([]*Book, int, error)
	ListByGenre(context context.Context, genreID, limit, offset int) ([]*Book, int, error)
	Get(context context.Context, id int) (*Book, error)
	Exists(context context.Context, id int) (bool, error)
	Create(context context.Context, book *Book) error
	Update(context context.Context, book *Book) error
	ReplaceAuthors(context context.Context, book *Book, authors []author.Author) error
	ReplaceGenres(context context.Context, book *Book, genres []genre.Genre) error
	Delete(context context.Context, id int) error
}

type AssetRepository interface {
	GetAsset(context context.Context, bookID int, category filestore.Category) (*Asset, error)
	CreateAsset(context context.Context, asset *Asset) error
	UpdateAsset(context context.Context, asset *Asset) error
	DeleteAsset(context context.Context, id int) error
	ListAssets(context context.Context, bookID int) ([]Asset, error)
}
