// Copyright (c) 2026 Kryspinoff. All rights reserved.

/*
Package account handles member identity: profiles, roles, wishlists, and
book ownership.

It provides self-service profile management for signed-in members, the
administrative account surface (listing, role assignment, deactivation), and
the wishlist/ownership relations that connect members to the catalog.

# Architecture

  - Entities: Account (the persisted member row).
  - Relations: Wishlist and OwnedBooks, both many-to-many with the catalog.
  - Security: passwords are stored as bcrypt hashes; role changes are
    restricted to SUPER_ADMIN at the routing layer.
*/
package account

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
)

// # Domain Entities

// Account is a registered member of the bookstore.
type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName      string    `gorm:"size:64;not null" json:"first_name"`
	LastName       string    `gorm:"size:64;not null" json:"last_name"`
	Username       string    `gorm:"size:32;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone          *string   `gorm:"size:32" json:"phone,omitempty"`
	HashedPassword string    `gorm:"size:128;not null" json:"-"`
	Role           sec.Role  `gorm:"size:16;not null;default:USER" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`

	// Wishlist holds books the member wants; OwnedBooks holds books the
	// member has purchased (grants full-PDF access).
	Wishlist   []book.Book `gorm:"many2many:wishlists" json:"-"`
	OwnedBooks []book.Book `gorm:"many2many:account_books" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// BeforeCreate assigns a fresh UUID when none was provided.
func (account *Account) BeforeCreate(*gorm.DB) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	return nil
}

// Field names for validation
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldUsername  = "username"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldPassword  = "password"
	FieldRole      = "role"
)

// Length bounds for profile fields.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MaxNameLen     = 64
	MaxPhoneLen    = 32
)

// # Repository Contract

// Repository defines the persistence contract for member accounts and their
// catalog relations.
type Repository interface {
	FindByID(context context.Context, id uuid.UUID) (*Account, error)
	FindByUsername(context context.Context, username string) (*Account, error)
	FindByEmail(context context.Context, email string) (*Account, error)
	List(context context.Context, limit, offset int) ([]*Account, int, error)
	Create(context context.Context, account *Account) error
	Update(context context.Context, account *Account) error
	Delete(context context.Context, id uuid.UUID) error

	// Wishlist relation
	ListWishlist(context context.Context, accountID uuid.UUID) ([]book.Book, error)
	WishlistContains(context context.Context, accountID uuid.UUID, bookID int) (bool, error)
	AddToWishlist(context context.Context, accountID uuid.UUID, bookID int) error
	RemoveFromWishlist(context context.Context, accountID uuid.UUID, bookID int) error

	// Ownership relation
	ListOwnedBooks(context context.Context, accountID uuid.UUID) ([]book.Book, error)
	GrantBooks(context context.Context, accountID uuid.UUID, books []book.Book) error
	OwnsBook(context context.Context, accountID uuid.UUID, bookID int) (bool, error)

	CountByRole(context context.Context, role sec.Role) (int, error)
}
