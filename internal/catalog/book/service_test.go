package book

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/catalog/review"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
	"github.com/Kryspinoff/bookstore/pkg/pointer"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&author.Author{}, &genre.Genre{}, &review.Review{}, &Book{}, &Asset{}))

	// The membership-side join tables belong to the account and order models,
	// which this package cannot import. Create them bare so the book delete
	// cleanup has something to sweep.
	for _, ddl := range []string{
		"CREATE TABLE IF NOT EXISTS wishlists (account_id text, book_id integer)",
		"CREATE TABLE IF NOT EXISTS account_books (account_id text, book_id integer)",
		"CREATE TABLE IF NOT EXISTS order_books (order_id integer, book_id integer)",
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}

	files, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	repo := NewGormRepository(db)
	service := NewService(
		repo,
		repo,
		author.NewService(author.NewGormRepository(db), slog.Default()),
		genre.NewService(genre.NewGormRepository(db), slog.Default()),
		files,
		slog.Default(),
	)
	return service, db
}

func validCreateInput() CreateInput {
	return CreateInput{
		Title:       "Nineteen Eighty-Four",
		Description: "A dystopian novel.",
		Language:    "en",
		Price:       9.99,
		ISBN:        "978-0-452-28423-4",
		Authors:     []string{"george orwell"},
		Genres:      []string{"Dystopian"},
	}
}

func TestCreateBookResolvesRelationships(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := service.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Authors, 1)
	require.Len(t, fetched.Genres, 1)
	assert.Equal(t, "George Orwell", fetched.Authors[0].FullName)
	assert.Equal(t, "dystopian", fetched.Genres[0].Name)
}

func TestCreateBookReusesExistingNaturalKeys(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	second := validCreateInput()
	second.Title = "Animal Farm"
	second.Authors = []string{"GEORGE ORWELL"}
	second.Genres = []string{"dystopian"}

	created, err := service.CreateBook(ctx, second)
	require.NoError(t, err)

	firstBook, err := service.GetBook(ctx, first.ID)
	require.NoError(t, err)
	secondBook, err := service.GetBook(ctx, created.ID)
	require.NoError(t, err)

	assert.Equal(t, firstBook.Authors[0].ID, secondBook.Authors[0].ID)
	assert.Equal(t, firstBook.Genres[0].ID, secondBook.Genres[0].ID)
}

func TestCreateBookRejectsDuplicateDescriptors(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	input := validCreateInput()
	input.Authors = []string{"George Orwell", "george orwell"}

	_, err := service.CreateBook(ctx, input)
	require.Error(t, err)

	// Atomic failure: no book row was created for the bad request.
	books, count, listErr := service.ListBooks(ctx, Filter{}, 10, 0)
	require.NoError(t, listErr)
	assert.Empty(t, books)
	assert.Zero(t, count)
}

func TestCreateBookDuplicateTitleConflicts(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = service.CreateBook(ctx, validCreateInput())
	assert.Error(t, err)
}

func TestUpdateBookPartialFields(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	updated, err := service.UpdateBook(ctx, created.ID, UpdateInput{
		Price:  pointer.To(14.99),
		Genres: &[]string{"Dystopian", "Political Fiction"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Nineteen Eighty-Four", updated.Title)
	assert.Equal(t, 14.99, updated.Price)
	require.Len(t, updated.Genres, 2)
	require.Len(t, updated.Authors, 1)
}

func TestListBooksByAuthorAndGenre(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	second := validCreateInput()
	second.Title = "Brave New World"
	second.Authors = []string{"Aldous Huxley"}
	_, err = service.CreateBook(ctx, second)
	require.NoError(t, err)

	fetched, err := service.GetBook(ctx, first.ID)
	require.NoError(t, err)

	byAuthor, total, err := service.ListBooksByAuthor(ctx, fetched.Authors[0].ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, first.ID, byAuthor[0].ID)

	// Both books share the dystopian genre.
	byGenre, total, err := service.ListBooksByGenre(ctx, fetched.Genres[0].ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, byGenre, 2)

	_, _, err = service.ListBooksByAuthor(ctx, 404, 10, 0)
	assert.Error(t, err)
}

func TestDeleteBookCascadesAssets(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	_, err = service.UploadAsset(ctx, created.ID, filestore.CategoryImage, "cover.png", "image/png", strings.NewReader("img"))
	require.NoError(t, err)
	_, err = service.UploadAsset(ctx, created.ID, filestore.CategoryPDF, "full.pdf", "application/pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	_, err = service.UploadAsset(ctx, created.ID, filestore.CategoryShortPDF, "short.pdf", "application/pdf", strings.NewReader("spdf"))
	require.NoError(t, err)

	require.NoError(t, service.DeleteBook(ctx, created.ID))

	_, err = service.GetBook(ctx, created.ID)
	assert.Error(t, err)
	assert.False(t, service.files.Exists(filestore.CategoryImage, created.ID, "cover.png"))
	assert.False(t, service.files.Exists(filestore.CategoryPDF, created.ID, "full.pdf"))
	assert.False(t, service.files.Exists(filestore.CategoryShortPDF, created.ID, "short.pdf"))

	assets, err := service.assets.ListAssets(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestDeleteBookClearsReferencingRows(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	accountID := uuid.New()
	require.NoError(t, db.Create(&review.Review{BookID: created.ID, AccountID: accountID, Rating: 5}).Error)
	require.NoError(t, db.Exec("INSERT INTO wishlists (account_id, book_id) VALUES (?, ?)", accountID.String(), created.ID).Error)
	require.NoError(t, db.Exec("INSERT INTO account_books (account_id, book_id) VALUES (?, ?)", accountID.String(), created.ID).Error)
	require.NoError(t, db.Exec("INSERT INTO order_books (order_id, book_id) VALUES (?, ?)", 1, created.ID).Error)

	require.NoError(t, service.DeleteBook(ctx, created.ID))

	var count int64
	require.NoError(t, db.Model(&review.Review{}).Where("book_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)

	for _, table := range []string{"wishlists", "account_books", "order_books"} {
		require.NoError(t, db.Table(table).Where("book_id = ?", created.ID).Count(&count).Error)
		assert.Zero(t, count, table)
	}
}

func TestAssetLifecycle(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateBook(ctx, validCreateInput())
	require.NoError(t, err)

	// Upload once, a second upload for the same slot is rejected.
	_, err = service.UploadAsset(ctx, created.ID, filestore.CategoryImage, "cover.png", "image/png", strings.NewReader("v1"))
	require.NoError(t, err)
	_, err = service.UploadAsset(ctx, created.ID, filestore.CategoryImage, "other.png", "image/png", strings.NewReader("v2"))
	assert.Error(t, err)

	// Download returns the stored bytes.
	asset, file, err := service.OpenAsset(ctx, created.ID, filestore.CategoryImage)
	require.NoError(t, err)
	data, err := io.ReadAll(file)
	file.Close()
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))
	assert.Equal(t, "cover.png", asset.Filename)

	// Replace keeps the same metadata id.
	replaced, err := service.ReplaceAsset(ctx, created.ID, filestore.CategoryImage, "new-cover.png", "image/png", strings.NewReader("v2"))
	require.NoError(t, err)
	assert.Equal(t, asset.ID, replaced.ID)
	assert.Equal(t, "new-cover.png", replaced.Filename)

	// Delete, then a fresh upload succeeds and download of the gap 404s.
	require.NoError(t, service.DeleteAsset(ctx, created.ID, filestore.CategoryImage))
	_, _, err = service.OpenAsset(ctx, created.ID, filestore.CategoryImage)
	assert.Error(t, err)

	_, err = service.UploadAsset(ctx, created.ID, filestore.CategoryImage, "cover.png", "image/png", strings.NewReader("v3"))
	assert.NoError(t, err)
}

func TestUploadAssetUnknownBook(t *testing.T) {
	service, _ := newTestService(t)
	_, err := service.UploadAsset(context.Background(), 404, filestore.CategoryImage, "cover.png", "image/png", strings.NewReader("x"))
	assert.Error(t, err)
}
