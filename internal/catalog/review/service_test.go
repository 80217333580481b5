package review

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/pkg/pointer"
)

type stubBooks struct {
	existing map[int]bool
}

func (s *stubBooks) BookExists(_ context.Context, bookID int) (bool, error) {
	return s.existing[bookID], nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Review{}))

	books := &stubBooks{existing: map[int]bool{1: true}}
	return NewService(NewGormRepository(db), books, slog.Default())
}

func identityFor(accountID uuid.UUID, role sec.Role) *sec.Identity {
	return &sec.Identity{AccountID: accountID.String(), Username: "tester", Role: role, Active: true}
}

func TestCreateReview(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	accountID := uuid.New()

	created, err := service.Create(ctx, 1, accountID, CreateInput{Rating: 4, Comment: "Solid read"})
	require.NoError(t, err)
	assert.Equal(t, 4, created.Rating)
	assert.False(t, created.Edited)
}

func TestCreateReviewUnknownBook(t *testing.T) {
	service := newTestService(t)
	_, err := service.Create(context.Background(), 42, uuid.New(), CreateInput{Rating: 4})
	assert.Error(t, err)
}

func TestCreateReviewRejectsSecondPerAccount(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	accountID := uuid.New()

	_, err := service.Create(ctx, 1, accountID, CreateInput{Rating: 4})
	require.NoError(t, err)

	_, err = service.Create(ctx, 1, accountID, CreateInput{Rating: 5})
	assert.Error(t, err)

	// A different account may still review the same book.
	_, err = service.Create(ctx, 1, uuid.New(), CreateInput{Rating: 5})
	assert.NoError(t, err)
}

func TestCreateReviewValidatesRating(t *testing.T) {
	service := newTestService(t)
	_, err := service.Create(context.Background(), 1, uuid.New(), CreateInput{Rating: 6})
	assert.Error(t, err)
}

func TestUpdateReviewSetsEditedFlag(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	accountID := uuid.New()

	created, err := service.Create(ctx, 1, accountID, CreateInput{Rating: 3, Comment: "ok"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, created.ID, identityFor(accountID, sec.RoleUser), UpdateInput{Rating: pointer.To(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "ok", updated.Comment)
	assert.True(t, updated.Edited)
}

func TestUpdateReviewOwnerOnly(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, 1, uuid.New(), CreateInput{Rating: 3})
	require.NoError(t, err)

	_, err = service.Update(ctx, created.ID, identityFor(uuid.New(), sec.RoleUser), UpdateInput{Rating: pointer.To(1)})
	assert.Error(t, err)
}

func TestDeleteReviewOwnerOrAdmin(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := service.Create(ctx, 1, owner, CreateInput{Rating: 3})
	require.NoError(t, err)

	// A stranger cannot delete it.
	err = service.Delete(ctx, created.ID, identityFor(uuid.New(), sec.RoleUser))
	assert.Error(t, err)

	// An admin can.
	err = service.Delete(ctx, created.ID, identityFor(uuid.New(), sec.RoleAdmin))
	assert.NoError(t, err)
}
