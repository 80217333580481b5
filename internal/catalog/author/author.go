package author

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Author is a natural-key catalog entity: the full name, title-cased, is the
// unique lookup key.
type Author struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:64;uniqueIndex;not null" json:"fullname"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Author) TableName() string { return "authors" }

// Field names for validation
const (
	FieldFullName = "fullname"
)

// Name length bounds for a full name.
const (
	MinNameLen = 6
	MaxNameLen = 32
)

var titleCaser = cases.Title(language.Und)

// Normalize collapses whitespace and title-cases a full name so "j. r. r.
// tolkien" and "J. R. R. Tolkien" resolve to the same natural key.
func Normalize(fullName string) string {
	return titleCaser.String(strings.Join(strings.Fields(fullName), " "))
}
