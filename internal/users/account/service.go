// Copyright (c) 2026 Kryspinoff. All rights reserved.

package account

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/internal/platform/validate"
)

// BookChecker verifies that a catalog book exists before a wishlist entry is
// made for it.
type BookChecker interface {
	BookExists(context context.Context, bookID int) (bool, error)
}

// Service implements account business logic on top of [Repository].
type Service struct {
	repo   Repository
	books  BookChecker
	logger *slog.Logger
}

func NewService(repo Repository, books BookChecker, logger *slog.Logger) *Service {
	return &Service{repo: repo, books: books, logger: logger}
}

// CreateInput carries the fields required to register a new account.
type CreateInput struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password"`
}

// UpdateInput carries a partial profile update. Nil fields are left untouched.
type UpdateInput struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
}

// Create registers a new account with the given role.
//
// Username and email are checked for uniqueness before the insert so the
// caller gets a message naming the offending field; the database constraint
// still backs the check against races.
func (service *Service) Create(ctx context.Context, input CreateInput, role sec.Role) (*Account, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldFirstName, input.FirstName).
		MaxLen(FieldFirstName, input.FirstName, MaxNameLen).
		Required(FieldLastName, input.LastName).
		MaxLen(FieldLastName, input.LastName, MaxNameLen).
		Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLen).
		MaxLen(FieldUsername, input.Username, MaxUsernameLen).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Password(FieldPassword, input.Password)
	if input.Phone != nil {
		validator.MaxLen(FieldPhone, *input.Phone, MaxPhoneLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperr.Conflict("User with this username already exists")
	} else if !isNotFound(err) {
		return nil, err
	}
	if _, err := service.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperr.Conflict("User with this email already exists")
	} else if !isNotFound(err) {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	account := &Account{
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Username:       input.Username,
		Email:          input.Email,
		Phone:          input.Phone,
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
	}
	if err := service.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	service.logger.Info("account_created",
		slog.String("account_id", account.ID.String()),
		slog.String("role", role.String()),
	)
	return account, nil
}

// # Self-Service Profile

func (service *Service) GetProfile(ctx context.Context, accountID string) (*Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return service.repo.FindByID(ctx, id)
}

// UpdateProfile applies a partial update to the caller's own profile.
func (service *Service) UpdateProfile(ctx context.Context, accountID string, input UpdateInput) (*Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil {
		account.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		account.LastName = *input.LastName
	}
	if input.Email != nil {
		account.Email = *input.Email
	}
	if input.Phone != nil {
		account.Phone = input.Phone
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldFirstName, account.FirstName).
		MaxLen(FieldFirstName, account.FirstName, MaxNameLen).
		Required(FieldLastName, account.LastName).
		MaxLen(FieldLastName, account.LastName, MaxNameLen).
		Required(FieldEmail, account.Email).
		Email(FieldEmail, account.Email)
	if account.Phone != nil {
		validator.MaxLen(FieldPhone, *account.Phone, MaxPhoneLen)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (service *Service) ChangePassword(ctx context.Context, accountID, currentPassword, newPassword string) error {
	id, err := parseAccountID(accountID)
	if err != nil {
		return err
	}

	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !sec.VerifyPassword(account.HashedPassword, currentPassword) {
		return apperr.BadRequest("Incorrect password")
	}
	if newPassword == currentPassword {
		return apperr.BadRequest("New password must differ from the current password")
	}

	validator := &validate.Validator{}
	if err := validator.Password(FieldPassword, newPassword).Err(); err != nil {
		return err
	}

	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	account.HashedPassword = hash
	return service.repo.Update(ctx, account)
}

// DeleteOwn removes the caller's own account after a password confirmation.
func (service *Service) DeleteOwn(ctx context.Context, accountID, password string) error {
	id, err := parseAccountID(accountID)
	if err != nil {
		return err
	}

	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !sec.VerifyPassword(account.HashedPassword, password) {
		return apperr.BadRequest("Incorrect password")
	}
	return service.repo.Delete(ctx, id)
}

// # Administration

func (service *Service) ListAccounts(ctx context.Context, limit, offset int) ([]*Account, int, error) {
	return service.repo.List(ctx, limit, offset)
}

func (service *Service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return service.repo.FindByID(ctx, id)
}

// SetRole assigns a new role to an account. The last SUPER_ADMIN cannot be
// demoted: someone must always be able to manage roles.
func (service *Service) SetRole(ctx context.Context, accountID string, role sec.Role) (*Account, error) {
	if !role.Valid() {
		return nil, validate.RequiredError(FieldRole, "Must be one of: USER, ADMIN, SUPER_ADMIN")
	}

	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.Role.IsSuperAdmin() && !role.IsSuperAdmin() {
		count, err := service.repo.CountByRole(ctx, sec.RoleSuperAdmin)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, apperr.BadRequest("Cannot demote the last super admin")
		}
	}

	account.Role = role
	if err := service.repo.Update(ctx, account); err != nil {
		return nil, err
	}

	service.logger.Info("account_role_changed",
		slog.String("account_id", account.ID.String()),
		slog.String("role", role.String()),
	)
	return account, nil
}

// SetActive toggles an account's active flag.
func (service *Service) SetActive(ctx context.Context, accountID string, active bool) (*Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	account, err := service.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.IsActive = active
	if err := service.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// AdminDelete removes any account by id.
func (service *Service) AdminDelete(ctx context.Context, accountID string) error {
	id, err := parseAccountID(accountID)
	if err != nil {
		return err
	}
	return service.repo.Delete(ctx, id)
}

// # Wishlist

func (service *Service) ListWishlist(ctx context.Context, accountID string) ([]book.Book, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return service.repo.ListWishlist(ctx, id)
}

// ToggleWishlist adds the book to the wishlist if absent and removes it if
// present. It reports whether the book is on the wishlist afterwards.
func (service *Service) ToggleWishlist(ctx context.Context, accountID string, bookID int) (bool, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return false, err
	}

	exists, err := service.books.BookExists(ctx, bookID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperr.NotFound("Book")
	}

	present, err := service.repo.WishlistContains(ctx, id, bookID)
	if err != nil {
		return false, err
	}
	if present {
		return false, service.repo.RemoveFromWishlist(ctx, id, bookID)
	}
	return true, service.repo.AddToWishlist(ctx, id, bookID)
}

// # Ownership

func (service *Service) ListOwnedBooks(ctx context.Context, accountID string) ([]book.Book, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}
	return service.repo.ListOwnedBooks(ctx, id)
}

// GrantBooks records that the account owns the given books. Books the account
// already owns are skipped so repeat purchases stay idempotent.
func (service *Service) GrantBooks(ctx context.Context, accountID string, books []book.Book) error {
	id, err := parseAccountID(accountID)
	if err != nil {
		return err
	}

	fresh := make([]book.Book, 0, len(books))
	for _, item := range books {
		owned, err := service.repo.OwnsBook(ctx, id, item.ID)
		if err != nil {
			return err
		}
		if !owned {
			fresh = append(fresh, book.Book{ID: item.ID})
		}
	}
	return service.repo.GrantBooks(ctx, id, fresh)
}

// OwnsBook reports whether the account has purchased the book. It satisfies
// the catalog's ownership check for full-PDF downloads.
func (service *Service) OwnsBook(ctx context.Context, accountID string, bookID int) (bool, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return false, err
	}
	return service.repo.OwnsBook(ctx, id, bookID)
}

// # Identity Resolution

// ResolveIdentity maps a token subject to the live account state. It backs
// the authentication middleware.
func (service *Service) ResolveIdentity(ctx context.Context, username string) (*sec.Identity, error) {
	account, err := service.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return &sec.Identity{
		AccountID: account.ID.String(),
		Username:  account.Username,
		Role:      account.Role,
		Active:    account.IsActive,
	}, nil
}

// EnsureSuperAdmin creates the bootstrap SUPER_ADMIN account on first start.
// It is a no-op when the username is already taken.
func (service *Service) EnsureSuperAdmin(ctx context.Context, input CreateInput) error {
	if _, err := service.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil
	} else if !isNotFound(err) {
		return err
	}

	if _, err := service.Create(ctx, input, sec.RoleSuperAdmin); err != nil {
		return err
	}

	service.logger.Info("super_admin_bootstrapped", slog.String("username", input.Username))
	return nil
}

// parseAccountID converts an identity's string id back into a UUID.
func parseAccountID(accountID string) (uuid.UUID, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return uuid.Nil, apperr.NotFound("User")
	}
	return id, nil
}

// isNotFound reports whether err is the repository's 404.
func isNotFound(err error) bool {
	appErr := apperr.As(err)
	return appErr != nil && appErr.Code == "NOT_FOUND"
}
