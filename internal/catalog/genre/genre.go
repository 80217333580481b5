package genre

import (
	"strings"
	"time"
)

// Genre is a natural-key catalog entity: the name, lower-cased, is the unique
// lookup key.
type Genre struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:32;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Genre) TableName() string { return "genres" }

// Field names for validation
const (
	FieldName = "name"
)

// Name length bounds for a genre.
const (
	MinNameLen = 2
	MaxNameLen = 32
)

// Normalize collapses whitespace and lower-cases a genre name so "Action"
// and "action" resolve to the same natural key.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
