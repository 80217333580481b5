// Package order records purchases: a member buys a set of books in one
// order, which grants ownership and with it full-PDF access.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kryspinoff/bookstore/internal/catalog/book"
)

// Order is a completed purchase of one or more books.
type Order struct {
	ID        int         `gorm:"primaryKey" json:"id"`
	AccountID uuid.UUID   `gorm:"type:uuid;index;not null" json:"account_id"`
	Total     float64     `gorm:"not null" json:"total"`
	Books     []book.Book `gorm:"many2many:order_books" json:"books"`
	CreatedAt time.Time   `json:"created_at"`
}

func (Order) TableName() string { return "orders" }

// Repository defines the persistence contract for orders.
type Repository interface {
	Get(context context.Context, orderID int) (*Order, error)
	ListByAccount(context context.Context, accountID uuid.UUID, limit, offset int) ([]*Order, int, error)
	List(context context.Context, limit, offset int) ([]*Order, int, error)
	Create(context context.Context, order *Order) error
}
