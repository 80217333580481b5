package order

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

func (repo *GormRepository) Get(context context.Context, orderID int) (*Order, error) {
	var order Order
	err := repo.db.WithContext(context).
		Preload("Books").Preload("Books.Authors").Preload("Books.Genres").
		First(&order, orderID).Error
	if database.IsNotFound(err) {
		return nil, apperr.NotFound("Order")
	}
	if err != nil {
		return nil, fmt.Errorf("order store: get failed: %w", err)
	}
	return &order, nil
}

func (repo *GormRepository) ListByAccount(context context.Context, accountID uuid.UUID, limit, offset int) ([]*Order, int, error) {
	var (
		orders []*Order
		total  int64
	)

	tx := repo.db.WithContext(context).Model(&Order{}).Where("account_id = ?", accountID)
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("order store: count failed: %w", err)
	}
	err := tx.Preload("Books").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("order store: list by account failed: %w", err)
	}
	return orders, int(total), nil
}

func (repo *GormRepository) List(context context.Context, limit, offset int) ([]*Order, int, error) {
	var (
		orders []*Order
		total  int64
	)

	tx := repo.db.WithContext(context).Model(&Order{})
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("order store: count failed: %w", err)
	}
	err := tx.Preload("Books").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("order store: list failed: %w", err)
	}
	return orders, int(total), nil
}

func (repo *GormRepository) Create(context context.Context, order *Order) error {
	// Omit book columns so only the join rows are written; the books
	// themselves already exist.
	if err := repo.db.WithContext(context).Omit("Books.*").Create(order).Error; err != nil {
		return fmt.Errorf("order store: create failed: %w", err)
	}
	return nil
}
