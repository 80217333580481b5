package order

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/internal/platform/validate"
)

// Catalog resolves the books being purchased.
type Catalog interface {
	GetBook(context context.Context, bookID int) (*book.Book, error)
}

// Granter records book ownership on the buyer's account after checkout.
type Granter interface {
	GrantBooks(context context.Context, accountID string, books []book.Book) error
}

type Service struct {
	repo    Repository
	catalog Catalog
	granter Granter
	logger  *slog.Logger
}

func NewService(repo Repository, catalog Catalog, granter Granter, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, granter: granter, logger: logger}
}

// CreateInput is the checkout payload.
type CreateInput struct {
	BookIDs []int `json:"book_ids"`
}

// Create places an order for the given books. The total is computed from the
// current catalog prices and ownership is granted immediately.
func (service *Service) Create(ctx context.Context, accountID string, input CreateInput) (*Order, error) {
	if len(input.BookIDs) == 0 {
		return nil, validate.RequiredError("book_ids", "This field is required")
	}

	seen := make(map[int]bool, len(input.BookIDs))
	for _, bookID := range input.BookIDs {
		if seen[bookID] {
			return nil, apperr.BadRequest("Duplicate books in order")
		}
		seen[bookID] = true
	}

	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	var (
		books []book.Book
		total float64
	)
	for _, bookID := range input.BookIDs {
		item, err := service.catalog.GetBook(ctx, bookID)
		if err != nil {
			return nil, err
		}
		books = append(books, book.Book{ID: item.ID})
		total += item.Price
	}

	created := &Order{
		AccountID: id,
		Total:     total,
		Books:     books,
	}
	if err := service.repo.Create(ctx, created); err != nil {
		return nil, err
	}

	if err := service.granter.GrantBooks(ctx, accountID, books); err != nil {
		return nil, err
	}

	service.logger.Info("order_placed",
		slog.Int("order_id", created.ID),
		slog.String("account_id", accountID),
		slog.Int("books", len(books)),
		slog.Float64("total", total),
	)
	return service.repo.Get(ctx, created.ID)
}

// Get returns a single order. Members only see their own orders; catalog
// managers see everything.
func (service *Service) Get(ctx context.Context, orderID int, identity *sec.Identity) (*Order, error) {
	found, err := service.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if found.AccountID.String() != identity.AccountID && !identity.Role.IsAdmin() {
		return nil, apperr.Forbidden("You do not have access to this order")
	}
	return found, nil
}

// ListOwn returns the caller's order history, newest first.
func (service *Service) ListOwn(ctx context.Context, accountID string, limit, offset int) ([]*Order, int, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, 0, apperr.NotFound("User")
	}
	return service.repo.ListByAccount(ctx, id, limit, offset)
}

// ListAll returns every order in the store.
func (service *Service) ListAll(ctx context.Context, limit, offset int) ([]*Order, int, error) {
	return service.repo.List(ctx, limit, offset)
}
