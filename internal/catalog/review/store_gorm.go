package review

import (
	"context"
	"fmt"

	"github.com/google/uuid"
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

func (repo *GormRepository) ListByBook(context context.Context, bookID, limit, offset int) ([]*Review, int, error) {
	var (
		reviews []*Review
		total   int64
	)

	tx := repo.db.WithContext(context).Model(&Review{}).Where("book_id = ?", bookID)
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("review store: count failed: %w", err)
	}
	if err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("review store: list failed: %w", err)
	}
	return reviews, int(total), nil
}

func (repo *GormRepository) Get(context context.Context, id int) (*Review, error) {
	var review Review
	err := repo.db.WithContext(context).First(&review, id).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Review")
	}
	if err != nil {
		return nil, fmt.Errorf("review store: get failed: %w", err)
	}
	return &review, nil
}

func (repo *GormRepository) GetByBookAndAccount(context context.Context, bookID int, accountID uuid.UUID) (*Review, error) {
	var review Review
	err := repo.db.WithContext(context).
		Where("book_id = ? AND account_id = ?", bookID, accountID).
		First(&review).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Review")
	}
	if err != nil {
		return nil, fmt.Errorf("review store: get by book and account failed: %w", err)
	}
	return &review, nil
}

func (repo *GormRepository) Create(context context.Context, review *Review) error {
	if err := repo.db.WithContext(context).Create(review).Error; err != nil {
		return fmt.Errorf("review store: create failed: %w", err)
	}
	return nil
}

func (repo *GormRepository) Update(context context.Context, review *Review) error {
	result := repo.db.WithContext(context).Model(&Review{}).
		Where("id = ?", review.ID).
		Updates(map[string]any{
			"rating":  review.Rating,
			"comment": review.Comment,
			"edited":  review.Edited,
		})
	if result.Error != nil {
		return fmt.Errorf("review store: update failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}

func (repo *GormRepository) Delete(context context.Context, id int) error {
	result := repo.db.WithContext(context).Delete(&Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("review store: delete failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Review")
	}
	return nil
}
