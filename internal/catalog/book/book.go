package book

import (
	"time"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/catalog/review"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
)

// Book is the central catalog entity. Authors and genres are resolved from
// natural-key descriptors at write time; assets are 1:1 per category.
type Book struct {
	ID              int             `gorm:"primaryKey" json:"id"`
	Title           string          `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description     string          `gorm:"type:text" json:"description"`
	Language        string          `gorm:"size:32" json:"language"`
	Price           float64         `gorm:"not null" json:"price"`
	PublicationDate *time.Time      `json:"publication_date,omitempty"`
	ISBN            string          `gorm:"size:32" json:"isbn"`
	Authors         []author.Author `gorm:"many2many:book_authors" json:"authors"`
	Genres          []genre.Genre   `gorm:"many2many:book_genres" json:"genres"`
	Reviews         []review.Review `gorm:"foreignKey:BookID" json:"reviews,omitempty"`
	Assets          []Asset         `gorm:"foreignKey:BookID" json:"assets,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Book) TableName() string { return "books" }

// Asset is the metadata record for a stored book file. The bytes live on the
// filesystem under a path derived from the book id and category.
type Asset struct {
	ID          int                `gorm:"primaryKey" json:"id"`
	BookID      int                `gorm:"not null;uniqueIndex:uniq_book_asset" json:"book_id"`
	Category    filestore.Category `gorm:"size:16;not null;uniqueIndex:uniq_book_asset" json:"category"`
	Filename    string             `gorm:"size:255;not null" json:"filename"`
	ContentType string             `gorm:"size:128" json:"content_type"`
	CreatedAt   time.Time          `json:"uploaded_at"`
	UpdatedAt   time.Time          `json:"-"`
}

func (Asset) TableName() string { return "book_assets" }

// Filter holds the parameters for a paginated book search.
type Filter struct {
	Query    string // substring match against title
	Language string
}

// Field names for validation
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldLanguage    = "language"
	FieldPrice       = "price"
	FieldISBN        = "isbn"
	FieldAuthors     = "authors"
	FieldGenres      = "genres"
)

const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 5000
	MaxLanguageLen    = 32
	MaxISBNLen        = 32
)
