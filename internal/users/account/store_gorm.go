// Copyright (c) 2026 Kryspinoff. All rights reserved.

package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/database"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
)

// GormRepository persists accounts through the shared GORM session.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (repo *GormRepository) FindByID(context context.Context, id uuid.UUID) (*Account, error) {
	var account Account
	err := repo.db.WithContext(context).Where("id = ?", id).First(&account).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("account store: find by id failed: %w", err)
	}
	return &account, nil
}

func (repo *GormRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	var account Account
	err := repo.db.WithContext(context).Where("username = ?", username).First(&account).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("account store: find by username failed: %w", err)
	}
	return &account, nil
}

func (repo *GormRepository) FindByEmail(context context.Context, email string) (*Account, error) {
	var account Account
	err := repo.db.WithContext(context).Where("email = ?", email).First(&account).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, fmt.Errorf("account store: find by email failed: %w", err)
	}
	return &account, nil
}

func (repo *GormRepository) List(context context.Context, limit, offset int) ([]*Account, int, error) {
	var (
		accounts []*Account
		total    int64
	)

	tx := repo.db.WithContext(context).Model(&Account{})
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("account store: count failed: %w", err)
	}
	if err := tx.Order("created_at").Limit(limit).Offset(offset).Find(&accounts).Error; err != nil {
		return nil, 0, fmt.Errorf("account store: list failed: %w", err)
	}
	return accounts, int(total), nil
}

func (repo *GormRepository) Create(context context.Context, account *Account) error {
	err := repo.db.WithContext(context).Create(account).Error
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("User with this username or email already exists")
	}
	if err != nil {
		return fmt.Errorf("account store: create failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Update(context context.Context, account *Account) error {
	err := repo.db.WithContext(context).Model(&Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"first_name":      account.FirstName,
			"last_name":       account.LastName,
			"email":           account.Email,
			"phone":           account.Phone,
			"hashed_password": account.HashedPassword,
			"role":            account.Role,
			"is_active":       account.IsActive,
		}).Error
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("User with this email already exists")
	}
	if err != nil {
		return fmt.Errorf("account store: update failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Delete(context context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		account := &Account{ID: id}
		if err := tx.Model(account).Association("Wishlist").Clear(); err != nil {
			return err
		}
		if err := tx.Model(account).Association("OwnedBooks").Clear(); err != nil {
			return err
		}

		result := tx.Delete(&Account{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if database.IsNotFound(err) {
		return apperr.NotFound("User")
	}
	if err != nil {
		return fmt.Errorf("account store: delete failed: %w", err)
	}
	return nil
}

// # Wishlist Relation

func (repo *GormRepository) ListWishlist(context context.Context, accountID uuid.UUID) ([]book.Book, error) {
	var books []book.Book
	err := repo.db.WithContext(context).
		Model(&Account{ID: accountID}).
		Preload("Authors").Preload("Genres").
		Association("Wishlist").Find(&books)
	if err != nil {
		return nil, fmt.Errorf("account store: list wishlist failed: %w", err)
	}
	return books, nil
}

func (repo *GormRepository) WishlistContains(context context.Context, accountID uuid.UUID, bookID int) (bool, error) {
	var count int64
	err := repo.db.WithContext(context).
		Table("wishlists").
		Where("account_id = ? AND book_id = ?", accountID, bookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("account store: wishlist lookup failed: %w", err)
	}
	return count > 0, nil
}

func (repo *GormRepository) AddToWishlist(context context.Context, accountID uuid.UUID, bookID int) error {
	err := repo.db.WithContext(context).
		Model(&Account{ID: accountID}).
		Association("Wishlist").Append(&book.Book{ID: bookID})
	if err != nil {
		return fmt.Errorf("account store: wishlist add failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) RemoveFromWishlist(context context.Context, accountID uuid.UUID, bookID int) error {
	err := repo.db.WithContext(context).
		Model(&Account{ID: accountID}).
		Association("Wishlist").Delete(&book.Book{ID: bookID})
	if err != nil {
		return fmt.Errorf("account store: wishlist remove failed: %w", err)
	}
	return nil
}

// # Ownership Relation

func (repo *GormRepository) ListOwnedBooks(context context.Context, accountID uuid.UUID) ([]book.Book, error) {
	var books []book.Book
	err := repo.db.WithContext(context).
		Model(&Account{ID: accountID}).
		Preload("Authors").Preload("Genres").
		Association("OwnedBooks").Find(&books)
	if err != nil {
		return nil, fmt.Errorf("account store: list owned books failed: %w", err)
	}
	return books, nil
}

func (repo *GormRepository) GrantBooks(context context.Context, accountID uuid.UUID, books []book.Book) error {
	if len(books) == 0 {
		return nil
	}
	err := repo.db.WithContext(context).
		Model(&Account{ID: accountID}).
		Association("OwnedBooks").Append(&books)
	if err != nil {
		return fmt.Errorf("account store: grant books failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) OwnsBook(context context.Context, accountID uuid.UUID, bookID int) (bool, error) {
	var count int64
	err := repo.db.WithContext(context).
		Table("account_books").
		Where("account_id = ? AND book_id = ?", accountID, bookID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("account store: ownership lookup failed: %w", err)
	}
	return count > 0, nil
}

func (repo *GormRepository) CountByRole(context context.Context, role sec.Role) (int, error) {
	var count int64
	err := repo.db.WithContext(context).Model(&Account{}).Where("role = ?", role).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("account store: count by role failed: %w", err)
	}
	return int(count), nil
}
