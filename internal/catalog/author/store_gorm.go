package author

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/database"
)

type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (repo *GormRepository) List(context context.Context, query string, limit, offset int) ([]*Author, int, error) {
	var (
		authors []*Author
		total   int64
	)

	tx := repo.db.WithContext(context).Model(&Author{})
	if query != "" {
		tx = tx.Where("lower(full_name) LIKE lower(?)", "%"+query+"%")
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("author store: count failed: %w", err)
	}
	if err := tx.Order("full_name").Limit(limit).Offset(offset).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("author store: list failed: %w", err)
	}
	return authors, int(total), nil
}

func (repo *GormRepository) Get(context context.Context, id int) (*Author, error) {
	var author Author
	err := repo.db.WithContext(context).First(&author, id).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Author")
	}
	if err != nil {
		return nil, fmt.Errorf("author store: get failed: %w", err)
	}
	return &author, nil
}

func (repo *GormRepository) GetByFullName(context context.Context, fullName string) (*Author, error) {
	var author Author
	err := repo.db.WithContext(context).Where("full_name = ?", fullName).First(&author).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Author")
	}
	if err != nil {
		return nil, fmt.Errorf("author store: get by fullname failed: %w", err)
	}
	return &author, nil
}

func (repo *GormRepository) Create(context context.Context, author *Author) error {
	err := repo.db.WithContext(context).Create(author).Error
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("Author with this fullname already exists")
	}
	if err != nil {
		return fmt.Errorf("author store: create failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Update(context context.Context, author *Author) error {
	result := repo.db.WithContext(context).Model(&Author{}).
		Where("id = ?", author.ID).
		Update("full_name", author.FullName)
	if database.IsUniqueViolation(result.Error) {
		return apperr.Conflict("Author with this fullname already exists")
	}
	if result.Error != nil {
		return fmt.Errorf("author store: update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Author")
	}
	return nil
}

func (repo *GormRepository) Delete(context context.Context, id int) error {
	err := repo.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		// Drop book links first so the row delete never trips foreign keys.
		if err := tx.Exec("DELETE FROM book_authors WHERE author_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&Author{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if database.IsNotFound(err) {
		return apperr.NotFound("Author")
	}
	if err != nil {
		return fmt.Errorf("author store: delete failed: %w", err)
	}
	return nil
}
