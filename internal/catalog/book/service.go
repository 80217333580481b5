package book

import (
	"context"
	"log/slog"
	"time"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
	"github.com/Kryspinoff/bookstore/internal/platform/validate"
)

// AuthorResolver turns full-name descriptors into author rows (create-or-reuse).
type AuthorResolver interface {
	ResolveOrCreate(context context.Context, fullNames []string) ([]author.Author, error)
	GetAuthor(context context.Context, id int) (*author.Author, error)
}

// GenreResolver turns name descriptors into genre rows (create-or-reuse).
type GenreResolver interface {
	ResolveOrCreate(context context.Context, names []string) ([]genre.Genre, error)
	GetGenre(context context.Context, id int) (*genre.Genre, error)
}

type Service struct {
	repo    Repository
	assets  AssetRepository
	authors AuthorResolver
	genres  GenreResolver
	files   *filestore.Store
	logger  *slog.Logger
}

func NewService(
	repo Repository,
	assets AssetRepository,
	authors AuthorResolver,
	genres GenreResolver,
	files *filestore.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:    repo,
		assets:  assets,
		authors: authors,
		genres:  genres,
		files:   files,
		logger:  logger,
	}
}

func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

func (service *Service) GetBook(context context.Context, id int) (*Book, error) {
	return service.repo.Get(context, id)
}

// ListBooksByAuthor returns the author's books, 404 when the author is unknown.
func (service *Service) ListBooksByAuthor(context context.Context, authorID, limit, offset int) ([]*Book, int, error) {
	if _, err := service.authors.GetAuthor(context, authorID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByAuthor(context, authorID, limit, offset)
}

// ListBooksByGenre returns the genre's books, 404 when the genre is unknown.
func (service *Service) ListBooksByGenre(context context.Context, genreID, limit, offset int) ([]*Book, int, error) {
	if _, err := service.genres.GetGenre(context, genreID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByGenre(context, genreID, limit, offset)
}

// BookExists implements the review package's BookChecker contract.
func (service *Service) BookExists(context context.Context, id int) (bool, error) {
	return service.repo.Exists(context, id)
}

type CreateInput struct {
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Language        string     `json:"language"`
	Price           float64    `json:"price"`
	PublicationDate *time.Time `json:"publication_date"`
	ISBN            string     `json:"isbn"`
	Authors         []string   `json:"authors"`
	Genres          []string   `json:"genres"`
}

// CreateBook validates the payload, rejects in-payload duplicate descriptors,
// resolves authors and genres to rows, and persists the book.
//
// Order matters: duplicate detection runs before resolution so a bad request
// creates no author or genre rows at all.
func (service *Service) CreateBook(context context.Context, input CreateInput) (*Book, error) {
	if err := validateBook(input.Title, input.Description, input.Language, input.ISBN, input.Price, input.Authors); err != nil {
		return nil, err
	}
	if err := DetectDuplicates(FieldAuthors, input.Authors, author.Normalize); err != nil {
		return nil, err
	}
	if err := DetectDuplicates(FieldGenres, input.Genres, genre.Normalize); err != nil {
		return nil, err
	}

	resolvedAuthors, err := service.authors.ResolveOrCreate(context, input.Authors)
	if err != nil {
		return nil, err
	}
	resolvedGenres, err := service.genres.ResolveOrCreate(context, input.Genres)
	if err != nil {
		return nil, err
	}

	created := &Book{
		Title:           input.Title,
		Description:     input.Description,
		Language:        input.Language,
		Price:           input.Price,
		PublicationDate: input.PublicationDate,
		ISBN:            input.ISBN,
		Authors:         resolvedAuthors,
		Genres:          resolvedGenres,
	}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.Int("book_id", created.ID),
		slog.String("title", created.Title),
	)
	return created, nil
}

// UpdateInput distinguishes absent fields (nil, untouched) from provided
// ones, including provided-but-empty descriptor lists which clear the
// relationship.
type UpdateInput struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Language        *string    `json:"language"`
	Price           *float64   `json:"price"`
	PublicationDate *time.Time `json:"publication_date"`
	ISBN            *string    `json:"isbn"`
	Authors         *[]string  `json:"authors"`
	Genres          *[]string  `json:"genres"`
}

func (service *Service) UpdateBook(context context.Context, id int, input UpdateInput) (*Book, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		existing.Title = *input.Title
	}
	if input.Description != nil {
		existing.Description = *input.Description
	}
	if input.Language != nil {
		existing.Language = *input.Language
	}
	if input.Price != nil {
		existing.Price = *input.Price
	}
	if input.PublicationDate != nil {
		existing.PublicationDate = input.PublicationDate
	}
	if input.ISBN != nil {
		existing.ISBN = *input.ISBN
	}

	authorNames := authorFullNames(existing.Authors)
	if input.Authors != nil {
		authorNames = *input.Authors
	}
	if err := validateBook(existing.Title, existing.Description, existing.Language, existing.ISBN, existing.Price, authorNames); err != nil {
		return nil, err
	}

	// Duplicate checks precede any row creation, both lists or neither.
	if input.Authors != nil {
		if err := DetectDuplicates(FieldAuthors, *input.Authors, author.Normalize); err != nil {
			return nil, err
		}
	}
	if input.Genres != nil {
		if err := DetectDuplicates(FieldGenres, *input.Genres, genre.Normalize); err != nil {
			return nil, err
		}
	}

	if input.Authors != nil {
		resolvedAuthors, err := service.authors.ResolveOrCreate(context, *input.Authors)
		if err != nil {
			return nil, err
		}
		if err := service.repo.ReplaceAuthors(context, existing, resolvedAuthors); err != nil {
			return nil, err
		}
	}
	if input.Genres != nil {
		resolvedGenres, err := service.genres.ResolveOrCreate(context, *input.Genres)
		if err != nil {
			return nil, err
		}
		if err := service.repo.ReplaceGenres(context, existing, resolvedGenres); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("book_updated", slog.Int("book_id", id))
	return service.repo.Get(context, id)
}

// DeleteBook removes the book's files first, then the row, so a successful
// row delete can never leave orphaned bytes behind.
func (service *Service) DeleteBook(context context.Context, id int) error {
	if _, err := service.repo.Get(context, id); err != nil {
		return err
	}

	if err := service.removeBookFiles(context, id); err != nil {
		return err
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("book_deleted", slog.Int("book_id", id))
	return nil
}

func authorFullNames(authors []author.Author) []string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = a.FullName
	}
	return names
}

func validateBook(title, description, language, isbn string, price float64, authors []string) error {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLen).
		MaxLen(FieldDescription, description, MaxDescriptionLen).
		MaxLen(FieldLanguage, language, MaxLanguageLen).
		MaxLen(FieldISBN, isbn, MaxISBNLen).
		Custom(FieldPrice, price < 0, "Must not be negative").
		Custom(FieldAuthors, len(authors) == 0, "At least one author is required")
	return validator.Err()
}
