package author

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Author{}))

	// The join table belongs to the book model, which this package cannot
	// import. Create it bare so the delete cleanup has something to sweep.
	require.NoError(t, db.Exec("CREATE TABLE IF NOT EXISTS book_authors (book_id integer, author_id integer)").Error)

	return NewService(NewGormRepository(db), slog.Default()), db
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "John Doe", Normalize("john doe"))
	assert.Equal(t, "John Doe", Normalize("  JOHN   DOE  "))
	assert.Equal(t, "J. R. R. Tolkien", Normalize("j. r. r. tolkien"))
}

func TestCreateAuthorNormalizesName(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.CreateAuthor(context.Background(), "george orwell")
	require.NoError(t, err)
	assert.Equal(t, "George Orwell", created.FullName)
	assert.NotZero(t, created.ID)
}

func TestCreateAuthorRejectsInvalidNames(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateAuthor(context.Background(), "a1")
	assert.Error(t, err)

	_, err = service.CreateAuthor(context.Background(), "G3org3 0rw3ll")
	assert.Error(t, err)
}

func TestCreateAuthorDuplicateConflicts(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateAuthor(context.Background(), "George Orwell")
	require.NoError(t, err)

	// Different casing, same natural key.
	_, err = service.CreateAuthor(context.Background(), "GEORGE ORWELL")
	assert.Error(t, err)
}

func TestResolveOrCreate(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, err := service.ResolveOrCreate(ctx, []string{"george orwell", "Aldous Huxley"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "George Orwell", first[0].FullName)
	assert.Equal(t, "Aldous Huxley", first[1].FullName)

	// Same keys in different casing resolve to the same rows.
	second, err := service.ResolveOrCreate(ctx, []string{"GEORGE ORWELL", "aldous huxley"})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[1].ID, second[1].ID)

	var count int64
	_, total, err := service.ListAuthors(ctx, "", 100, 0)
	require.NoError(t, err)
	count = int64(total)
	assert.EqualValues(t, 2, count)
}

// racingRepository simulates losing the create race: the first lookup misses,
// the create conflicts, and the re-fetch finds the concurrently inserted row.
type racingRepository struct {
	Repository
	existing *Author
	lookups  int
}

func (r *racingRepository) GetByFullName(context.Context, string) (*Author, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, apperr.NotFound("Author")
	}
	return r.existing, nil
}

func (r *racingRepository) Create(context.Context, *Author) error {
	return apperr.Conflict("Author with this fullname already exists")
}

func TestResolveOrCreateRefetchesAfterConflict(t *testing.T) {
	existing := &Author{ID: 7, FullName: "George Orwell"}
	repo := &racingRepository{existing: existing}
	service := NewService(repo, slog.Default())

	resolved, err := service.ResolveOrCreate(context.Background(), []string{"george orwell"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, existing.ID, resolved[0].ID)
	assert.Equal(t, 2, repo.lookups)
}

func TestUpdateAuthor(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateAuthor(ctx, "George Orwell")
	require.NoError(t, err)

	updated, err := service.UpdateAuthor(ctx, created.ID, "eric arthur blair")
	require.NoError(t, err)
	assert.Equal(t, "Eric Arthur Blair", updated.FullName)

	_, err = service.UpdateAuthor(ctx, 9999, "Unknown Person")
	assert.Error(t, err)
}

func TestDeleteAuthor(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateAuthor(ctx, "George Orwell")
	require.NoError(t, err)

	require.NoError(t, service.DeleteAuthor(ctx, created.ID))
	_, err = service.GetAuthor(ctx, created.ID)
	assert.Error(t, err)

	assert.Error(t, service.DeleteAuthor(ctx, created.ID))
}

func TestDeleteAuthorClearsBookLinks(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateAuthor(ctx, "George Orwell")
	require.NoError(t, err)
	require.NoError(t, db.Exec("INSERT INTO book_authors (book_id, author_id) VALUES (?, ?)", 1, created.ID).Error)

	require.NoError(t, service.DeleteAuthor(ctx, created.ID))

	var links int64
	require.NoError(t, db.Table("book_authors").Where("author_id = ?", created.ID).Count(&links).Error)
	assert.Zero(t, links)
}
