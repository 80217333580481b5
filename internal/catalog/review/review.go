package review

import (
	"time"

	"github.com/google/uuid"
)

// Review is a member's opinion on a book. One review per (book, account)
// pair, enforced by an explicit pre-check at write time.
type Review struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	BookID    int       `gorm:"not null;index" json:"book_id"`
	AccountID uuid.UUID `gorm:"type:uuid;not null;index" json:"account_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	// Edited flips to true on the first update and never back.
	Edited    bool      `gorm:"not null;default:false" json:"edited"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string { return "reviews" }

// Field names for validation
const (
	FieldRating  = "rating"
	FieldComment = "comment"
)

// Rating bounds (inclusive).
const (
	MinRating = 1
	MaxRating = 5
)

// MaxCommentLen bounds the free-text comment.
const MaxCommentLen = 2000
