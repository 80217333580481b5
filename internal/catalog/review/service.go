package review

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/internal/platform/validate"
)

// BookChecker verifies book existence without importing the book package.
type BookChecker interface {
	BookExists(context context.Context, bookID int) (bool, error)
}

type Service struct {
	repo   Repository
	books  BookChecker
	logger *slog.Logger
}

func NewService(repo Repository, books BookChecker, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		books:  books,
		logger: logger,
	}
}

func (service *Service) ListByBook(context context.Context, bookID, limit, offset int) ([]*Review, int, error) {
	if err := service.requireBook(context, bookID); err != nil {
		return nil, 0, err
	}
	return service.repo.ListByBook(context, bookID, limit, offset)
}

type CreateInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (service *Service) Create(context context.Context, bookID int, accountID uuid.UUID, input CreateInput) (*Review, error) {
	if err := validateInput(input.Rating, input.Comment); err != nil {
		return nil, err
	}
	if err := service.requireBook(context, bookID); err != nil {
		return nil, err
	}

	// One review per (book, account): explicit pre-check, by design not a
	// uniqueness constraint.
	if _, err := service.repo.GetByBookAndAccount(context, bookID, accountID); err == nil {
		return nil, apperr.BadRequest("You have already reviewed this book")
	} else if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != 404 {
		return nil, err
	}

	created := &Review{
		BookID:    bookID,
		AccountID: accountID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("review_created",
		slog.Int("book_id", bookID),
		slog.String("account_id", accountID.String()),
	)
	return created, nil
}

type UpdateInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// Update applies a partial change to the caller's own review and marks it
// edited.
func (service *Service) Update(context context.Context, id int, identity *sec.Identity, input UpdateInput) (*Review, error) {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return nil, err
	}
	if existing.AccountID.String() != identity.AccountID {
		return nil, apperr.Forbidden("You can only edit your own reviews")
	}

	if input.Rating != nil {
		existing.Rating = *input.Rating
	}
	if input.Comment != nil {
		existing.Comment = *input.Comment
	}
	if err := validateInput(existing.Rating, existing.Comment); err != nil {
		return nil, err
	}

	existing.Edited = true
	if err := service.repo.Update(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("review_updated", slog.Int("review_id", id))
	return existing, nil
}

// Delete removes a review. Owners may delete their own; admins may delete any.
func (service *Service) Delete(context context.Context, id int, identity *sec.Identity) error {
	existing, err := service.repo.Get(context, id)
	if err != nil {
		return err
	}
	if existing.AccountID.String() != identity.AccountID && !identity.Role.IsAdmin() {
		return apperr.Forbidden("You can only delete your own reviews")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("review_deleted", slog.Int("review_id", id))
	return nil
}

func (service *Service) requireBook(context context.Context, bookID int) error {
	exists, err := service.books.BookExists(context, bookID)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Book")
	}
	return nil
}

func validateInput(rating int, comment string) error {
	validator := &validate.Validator{}
	validator.Range(FieldRating, rating, MinRating, MaxRating).
		MaxLen(FieldComment, comment, MaxCommentLen)
	return validator.Err()
}
