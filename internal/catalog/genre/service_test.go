package genre

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
	require.NoError(t, db.AutoMigrate(&Genre{}))

	// The join table belongs to the book model, which this package cannot
	// import. Create it bare so the delete cleanup has something to sweep.
	require.NoError(t, db.Exec("CREATE TABLE IF NOT EXISTS book_genres (book_id integer, genre_id integer)").Error)

	return NewService(NewGormRepository(db), slog.Default()), db
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "fantasy", Normalize("Fantasy"))
	assert.Equal(t, "science fiction", Normalize("  Science   Fiction "))
}

func TestCreateGenreNormalizesName(t *testing.T) {
	service, _ := newTestService(t)

	created, err := service.CreateGenre(context.Background(), "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, "fantasy", created.Name)
}

func TestCreateGenreRejectsInvalidNames(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.CreateGenre(context.Background(), "f")
	assert.Error(t, err)

	_, err = service.CreateGenre(context.Background(), "fantasy!")
	assert.Error(t, err)
}

func TestResolveOrCreateIsIdempotentPerNaturalKey(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	first, err := service.ResolveOrCreate(ctx, []string{"Action"})
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := service.ResolveOrCreate(ctx, []string{"action"})
	require.NoError(t, err)
	require.Len(t, second, 1)

	assert.Equal(t, first[0].ID, second[0].ID)

	_, total, err := service.ListGenres(ctx, "", 100, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

// racingRepository simulates losing the create race: the first lookup misses,
// the create conflicts, and the re-fetch finds the concurrently inserted row.
type racingRepository struct {
	Repository
	existing *Genre
	lookups  int
}

func (r *racingRepository) GetByName(context.Context, string) (*Genre, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, apperr.NotFound("Genre")
	}
	return r.existing, nil
}

func (r *racingRepository) Create(context.Context, *Genre) error {
	return apperr.Conflict("Genre with this name already exists")
}

func TestResolveOrCreateRefetchesAfterConflict(t *testing.T) {
	existing := &Genre{ID: 3, Name: "dystopian"}
	repo := &racingRepository{existing: existing}
	service := NewService(repo, slog.Default())

	resolved, err := service.ResolveOrCreate(context.Background(), []string{"Dystopian"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, existing.ID, resolved[0].ID)
	assert.Equal(t, 2, repo.lookups)
}

func TestUpdateAndDeleteGenre(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateGenre(ctx, "fantasy")
	require.NoError(t, err)

	updated, err := service.UpdateGenre(ctx, created.ID, "Dark Fantasy")
	require.NoError(t, err)
	assert.Equal(t, "dark fantasy", updated.Name)

	require.NoError(t, service.DeleteGenre(ctx, created.ID))
	_, err = service.GetGenre(ctx, created.ID)
	assert.Error(t, err)
}

func TestDeleteGenreClearsBookLinks(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateGenre(ctx, "fantasy")
	require.NoError(t, err)
	require.NoError(t, db.Exec("INSERT INTO book_genres (book_id, genre_id) VALUES (?, ?)", 1, created.ID).Error)

	require.NoError(t, service.DeleteGenre(ctx, created.ID))

	var links int64
	require.NoError(t, db.Table("book_genres").Where("genre_id = ?", created.ID).Count(&links).Error)
	assert.Zero(t, links)
}
