package genre

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

func (repo *GormRepository) List(context context.Context, query string, limit, offset int) ([]*Genre, int, error) {
	var (
		genres []*Genre
		total  int64
	)

	tx := repo.db.WithContext(context).Model(&Genre{})
	if query != "" {
		tx = tx.Where("name LIKE ?", "%"+Normalize(query)+"%")
	}

	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("genre store: count failed: %w", err)
	}
	if err := tx.Order("name").Limit(limit).Offset(offset).Find(&genres).Error; err != nil {
		return nil, 0, fmt.Errorf("genre store: list failed: %w", err)
	}
	return genres, int(total), nil
}

func (repo *GormRepository) Get(context context.Context, id int) (*Genre, error) {
	var genre Genre
	err := repo.db.WithContext(context).First(&genre, id).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Genre")
	}
	if err != nil {
		return nil, fmt.Errorf("genre store: get failed: %w", err)
	}
	return &genre, nil
}

func (repo *GormRepository) GetByName(context context.Context, name string) (*Genre, error) {
	var genre Genre
	err := repo.db.WithContext(context).Where("name = ?", name).First(&genre).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Genre")
	}
	if err != nil {
		return nil, fmt.Errorf("genre store: get by name failed: %w", err)
	}
	return &genre, nil
}

func (repo *GormRepository) Create(context context.Context, genre *Genre) error {
	err := repo.db.WithContext(context).Create(genre).Error
	if database.IsUniqueViolation(err) {
		return apperr.Conflict("Genre with this name already exists")
	}
	if err != nil {
		return fmt.Errorf("genre store: create failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Update(context context.Context, genre *Genre) error {
	result := repo.db.WithContext(context).Model(&Genre{}).
		Where("id = ?", genre.ID).
		Update("name", genre.Name)
	if database.IsUniqueViolation(result.Error) {
		return apperr.Conflict("Genre with this name already exists")
	}
	if result.Error != nil {
		return fmt.Errorf("genre store: update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Genre")
	}
	return nil
}

func (repo *GormRepository) Delete(context context.Context, id int) error {
	err := repo.db.WithContext(context).Transaction(func(tx *gorm.DB) error {
		// Drop book links first so the row delete never trips foreign keys.
		if err := tx.Exec("DELETE FROM book_genres WHERE genre_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&Genre{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if database.IsNotFound(err) {
		return apperr.NotFound("Genre")
	}
	if err != nil {
		return fmt.Errorf("genre store: delete failed: %w", err)
	}
	return nil
}
