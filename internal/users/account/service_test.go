package account

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

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/book"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/catalog/review"
	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/pkg/pointer"
)

type stubBooks struct {
	existing map[int]bool
}

func (s stubBooks) BookExists(_ context.Context, bookID int) (bool, error) {
	return s.existing[bookID], nil
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&author.Author{}, &genre.Genre{}, &review.Review{}, &book.Book{}, &book.Asset{}, &Account{},
	))

	books := stubBooks{existing: map[int]bool{1: true, 2: true}}
	return NewService(NewGormRepository(db), books, slog.Default()), db
}

func validCreateInput() CreateInput {
	return CreateInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Username:  "ada",
		Email:     "ada@example.com",
		Password:  "Sup3r-secret",
	}
}

func superAdminInput() CreateInput {
	return CreateInput{
		FirstName: "Root",
		LastName:  "Admin",
		Username:  "root",
		Email:     "root@example.com",
		Password:  "R00t-secret",
	}
}

func seedBook(t *testing.T, db *gorm.DB, id int, title string) book.Book {
	t.Helper()
	item := book.Book{ID: id, Title: title, Price: 9.99}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func TestCreateHashesPasswordAndDefaults(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	assert.NotEqual(t, "Sup3r-secret", created.HashedPassword)
	assert.True(t, sec.VerifyPassword(created.HashedPassword, "Sup3r-secret"))
	assert.Equal(t, sec.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.ID)
}

func TestCreateRejectsDuplicateUsernameAndEmail(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	_, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	sameUsername := validCreateInput()
	sameUsername.Email = "other@example.com"
	_, err = service.Create(ctx, sameUsername, sec.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "User with this username already exists", err.Error())

	sameEmail := validCreateInput()
	sameEmail.Username = "ada2"
	_, err = service.Create(ctx, sameEmail, sec.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "User with this email already exists", err.Error())
}

func TestCreateValidatesPasswordPolicy(t *testing.T) {
	service, _ := newTestService(t)

	input := validCreateInput()
	input.Password = "weak"

	_, err := service.Create(context.Background(), input, sec.RoleUser)
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 422, appErr.HTTPStatus)
}

func TestUpdateProfilePartialFields(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	updated, err := service.UpdateProfile(ctx, created.ID.String(), UpdateInput{
		LastName: pointer.To("Byron"),
		Phone:    pointer.To("+44 20 7946 0000"),
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Byron", updated.LastName)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+44 20 7946 0000", *updated.Phone)
}

func TestChangePasswordRequiresCurrent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	err = service.ChangePassword(ctx, created.ID.String(), "wrong-pass", "N3w-secret!")
	require.Error(t, err)
	assert.Equal(t, "Incorrect password", err.Error())

	err = service.ChangePassword(ctx, created.ID.String(), "Sup3r-secret", "Sup3r-secret")
	require.Error(t, err)
	assert.Equal(t, "New password must differ from the current password", err.Error())

	require.NoError(t, service.ChangePassword(ctx, created.ID.String(), "Sup3r-secret", "N3w-secret1"))

	fresh, err := service.GetProfile(ctx, created.ID.String())
	require.NoError(t, err)
	assert.True(t, sec.VerifyPassword(fresh.HashedPassword, "N3w-secret1"))
}

func TestDeleteOwnRequiresPassword(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	err = service.DeleteOwn(ctx, created.ID.String(), "wrong-pass")
	require.Error(t, err)

	require.NoError(t, service.DeleteOwn(ctx, created.ID.String(), "Sup3r-secret"))

	_, err = service.GetProfile(ctx, created.ID.String())
	assert.Error(t, err)
}

func TestToggleWishlist(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	seedBook(t, db, 1, "Nineteen Eighty-Four")

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)
	accountID := created.ID.String()

	// First toggle adds, second removes.
	wishlisted, err := service.ToggleWishlist(ctx, accountID, 1)
	require.NoError(t, err)
	assert.True(t, wishlisted)

	books, err := service.ListWishlist(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, books, 1)

	wishlisted, err = service.ToggleWishlist(ctx, accountID, 1)
	require.NoError(t, err)
	assert.False(t, wishlisted)

	books, err = service.ListWishlist(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestToggleWishlistUnknownBook(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	_, err = service.ToggleWishlist(ctx, created.ID.String(), 404)
	require.Error(t, err)
	assert.Equal(t, "Book not found", err.Error())
}

func TestGrantBooksIsIdempotent(t *testing.T) {
	service, db := newTestService(t)
	ctx := context.Background()

	first := seedBook(t, db, 1, "Nineteen Eighty-Four")
	second := seedBook(t, db, 2, "Animal Farm")

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)
	accountID := created.ID.String()

	require.NoError(t, service.GrantBooks(ctx, accountID, []book.Book{first}))
	require.NoError(t, service.GrantBooks(ctx, accountID, []book.Book{first, second}))

	owned, err := service.ListOwnedBooks(ctx, accountID)
	require.NoError(t, err)
	assert.Len(t, owned, 2)

	owns, err := service.OwnsBook(ctx, accountID, first.ID)
	require.NoError(t, err)
	assert.True(t, owns)

	owns, err = service.OwnsBook(ctx, accountID, 404)
	require.NoError(t, err)
	assert.False(t, owns)
}

func TestSetRoleProtectsLastSuperAdmin(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.EnsureSuperAdmin(ctx, superAdminInput()))
	admin, err := service.repo.FindByUsername(ctx, "root")
	require.NoError(t, err)

	_, err = service.SetRole(ctx, admin.ID.String(), sec.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "Cannot demote the last super admin", err.Error())

	// A second super admin unblocks the demotion.
	_, err = service.Create(ctx, validCreateInput(), sec.RoleSuperAdmin)
	require.NoError(t, err)

	demoted, err := service.SetRole(ctx, admin.ID.String(), sec.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, demoted.Role)
}

func TestEnsureSuperAdminIsIdempotent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.EnsureSuperAdmin(ctx, superAdminInput()))
	require.NoError(t, service.EnsureSuperAdmin(ctx, superAdminInput()))

	count, err := service.repo.CountByRole(ctx, sec.RoleSuperAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResolveIdentity(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleAdmin)
	require.NoError(t, err)

	identity, err := service.ResolveIdentity(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), identity.AccountID)
	assert.Equal(t, sec.RoleAdmin, identity.Role)
	assert.True(t, identity.Active)

	_, err = service.ResolveIdentity(ctx, "ghost")
	assert.Error(t, err)
}

func TestSetActiveFlowsToIdentity(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	created, err := service.Create(ctx, validCreateInput(), sec.RoleUser)
	require.NoError(t, err)

	_, err = service.SetActive(ctx, created.ID.String(), false)
	require.NoError(t, err)

	identity, err := service.ResolveIdentity(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, identity.Active)
}
