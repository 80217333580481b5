package book

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/catalog/review"
	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/database"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (repo *GormRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	var (
		books []*Book
		total int64
	)

	tx := repo.db.WithContext(context).Model(&Book{})
	if filter.Query != "" {
		tx = tx.Where("lower(title) LIKE lower(?)", "%"+filter.Query+"%")
	}
	if filter.Language != "" {
		tx = tx.Where("language = ?", filter.Language)
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("book store: count failed: %w", err)
	}
	err := tx.Preload("Authors").Preload("Genres").
		Order("title").Limit(limit).Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("book store: list failed: %w", err)
	}
	return books, int(total), nil
}

func (repo *GormRepository) ListByAuthor(context context.Context, authorID, limit, offset int) ([]*Book, int, error) {
	tx := repo.db.WithContext(context).Model(&Book{}).
		Joins("JOIN book_authors ON book_authors.book_id = books.id").
		Where("book_authors.author_id = ?", authorID)
	return listJoined(tx, "author", limit, offset)
}

func (repo *GormRepository) ListByGenre(context context.Context, genreID, limit, offset int) ([]*Book, int, error) {
	tx := repo.db.WithContext(context).Model(&Book{}).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID)
	return listJoined(tx, "genre", limit, offset)
}

func listJoined(tx *gorm.DB, relation string, limit, offset int) ([]*Book, int, error) {
	var (
		books []*Book
		total int64
	)

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("book store: count by %s failed: %w", relation, err)
	}
	err := tx.Preload("Authors").Preload("Genres").
		Order("title").Limit(limit).Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("book store: list by %s failed: %w", relation, err)
	}
	return books, int(total), nil
}

func (repo *GormRepository) Get(context context.Context, id int) (*Book, error) {
	var book Book
	err := repo.db.WithContext(context).
		Preload("Authors").Preload("Genres").Preload("Reviews").Preload("Assets").
		First(&book, id).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Book")
	}
	if err != nil {
		return nil, fmt.Errorf("book store: get failed: %w", err)
	}
	return &book, nil
}

func (repo *GormRepository) Exists(context context.Context, id int) (bool, error) {
	var count int64
	err := repo.db.WithContext(context).Model(&Book{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("book store: exists failed: %w", err)
	}
	return count > 0, nil
}

func (repo *GormRepository) Create(context context.Context, book *Book) error {
	err := repo.db.WithContext(context).Create(book).Error
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("Book with this title already exists")
	}
	if err != nil {
		return fmt.Errorf("book store: create failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Update(context context.Context, book *Book) error {
	result := repo.db.WithContext(context).Model(&Book{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"title":            book.Title,
			"description":      book.Description,
			"language":         book.Language,
			"price":            book.Price,
			"publication_date": book.PublicationDate,
			"isbn":             book.ISBN,
		})
	if database.IsUniqueViolation(result.Error) {
		return apperr.Conflict("Book with this title already exists")
	}
	if result.Error != nil {
		return fmt.Errorf("book store: update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Book")
	}
	return nil
}

func (repo *GormRepository) ReplaceAuthors(context context.Context, book *Book, authors []author.Author) error {
	err := repo.db.WithContext(context).Model(book).Association("Authors").Replace(authors)
	if err != nil {
		return fmt.Errorf("book store: replace authors failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) ReplaceGenres(context context.Context, book *Book, genres []genre.Genre) error {
	err := repo.db.WithContext(context).Model(book).Association("Genres").Replace(genres)
	if err != nil {
		return fmt.Errorf("book store: replace genres failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Delete(context context.Context, id int) error {
	err := repo.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		var book Book
		if err := tx.First(&book, id).Error; err != nil {
			return err
		}

		if err := tx.Model(&book).Association("Authors").Clear(); err != nil {
			return err
		}
		if err := tx.Model(&book).Association("Genres").Clear(); err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&Asset{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&review.Review{}).Error; err != nil {
			return err
		}

		// Join rows referencing the book from the membership side: wishlist
		// entries, granted ownership, and order line items. Without this the
		// row delete trips foreign keys on postgres.
		for _, table := range []string{"wishlists", "account_books", "order_books"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE book_id = ?", id).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&Book{}, id).Error
	})
	if database.IsNotFound(err) {
		return apperr.NotFound("Book")
	}
	if err != nil {
		return fmt.Errorf("book store: delete failed: %w", err)
	}
	return nil
}

// # Asset Metadata

func (repo *GormRepository) GetAsset(context context.Context, bookID int, category filestore.Category) (*Asset, error) {
	var asset Asset
	err := repo.db.WithContext(context).
		Where("book_id = ? AND category = ?", bookID, category).
		First(&asset).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("File")
	}
	if err != nil {
		return nil, fmt.Errorf("book store: get asset failed: %w", err)
	}
	return &asset, nil
}

func (repo *GormRepository) CreateAsset(context context.Context, asset *Asset) error {
	err := repo.db.WithContext(context).Create(asset).Error
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("File already exists for this book")
	}
	if err != nil {
		return fmt.Errorf("book store: create asset failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) UpdateAsset(context context.Context, asset *Asset) error {
	result := repo.db.WithContext(context).Model(&Asset{}).
		Where("id = ?", asset.ID).
		Updates(map[string]any{
			"filename":     asset.Filename,
			"content_type": asset.ContentType,
		})
	if result.Error != nil {
		return fmt.Errorf("book store: update asset failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("File")
	}
	return nil
}

func (repo *GormRepository) DeleteAsset(context context.Context, id int) error {
	result := repo.db.WithContext(context).Delete(&Asset{}, id)
	if result.Error != nil {
		return fmt.Errorf("book store: delete asset failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("File")
	}
	return nil
}

func (repo *GormRepository) ListAssets(context context.Context, bookID int) ([]Asset, error) {
	var assets []Asset
	err := repo.db.WithContext(context).Where("book_id = ?", bookID).Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("book store: list assets failed: %w", err)
	}
	return assets, nil
}
