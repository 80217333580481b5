package book

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
)

// UploadAsset stores a new file for the given book and category.
//
// Both the metadata record and the on-disk create enforce the 1:1 contract:
// the metadata row carries a unique (book, category) index and the file open
// is atomic fail-if-exists, so concurrent uploads cannot race silently.
func (service *Service) UploadAsset(context context.Context, bookID int, category filestore.Category, filename, contentType string, reader io.Reader) (*Asset, error) {
	if _, err := service.repo.Get(context, bookID); err != nil {
		return nil, err
	}

	if _, err := service.assets.GetAsset(context, bookID, category); err == nil {
		return nil, apperr.Conflict("File already exists for this book")
	} else if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != 404 {
		return nil, err
	}

	if _, err := service.files.Create(category, bookID, filename, reader); err != nil {
		if errors.Is(err, filestore.ErrExist) {
			return nil, apperr.Conflict("File already exists for this book")
		}
		if errors.Is(err, filestore.ErrInvalidFilename) {
			return nil, apperr.ValidationError("Invalid filename")
		}
		return nil, mapFilesystemError(err)
	}

	asset := &Asset{
		BookID:      bookID,
		Category:    category,
		Filename:    filename,
		ContentType: contentType,
	}
	if err := service.assets.CreateAsset(context, asset); err != nil {
		// Roll the file back so the store and disk stay in sync.
		_ = service.files.Remove(category, bookID, filename)
		return nil, err
	}

	service.logger.Info("book_asset_uploaded",
		slog.Int("book_id", bookID),
		slog.String("category", string(category)),
		slog.String("filename", filename),
	)
	return asset, nil
}

// ReplaceAsset swaps the stored file for a new one, updating the metadata
// record in place (same entity id).
func (service *Service) ReplaceAsset(context context.Context, bookID int, category filestore.Category, filename, contentType string, reader io.Reader) (*Asset, error) {
	existing, err := service.assets.GetAsset(context, bookID, category)
	if err != nil {
		return nil, err
	}

	if err := service.files.Remove(category, bookID, existing.Filename); err != nil && !errors.Is(err, filestore.ErrNotExist) {
		return nil, mapFilesystemError(err)
	}
	if _, err := service.files.Replace(category, bookID, filename, reader); err != nil {
		if errors.Is(err, filestore.ErrInvalidFilename) {
			return nil, apperr.ValidationError("Invalid filename")
		}
		return nil, mapFilesystemError(err)
	}

	existing.Filename = filename
	existing.ContentType = contentType
	if err := service.assets.UpdateAsset(context, existing); err != nil {
		return nil, err
	}

	service.logger.Info("book_asset_replaced",
		slog.Int("book_id", bookID),
		slog.String("category", string(category)),
	)
	return existing, nil
}

// OpenAsset returns the metadata and a readable handle for download. Both the
// record and the bytes are checked independently; either one missing is a
// plain 404, never a server error.
func (service *Service) OpenAsset(context context.Context, bookID int, category filestore.Category) (*Asset, *os.File, error) {
	asset, err := service.assets.GetAsset(context, bookID, category)
	if err != nil {
		return nil, nil, err
	}

	file, err := service.files.Open(category, bookID, asset.Filename)
	if errors.Is(err, filestore.ErrNotExist) {
		return nil, nil, apperr.NotFound("File")
	}
	if err != nil {
		return nil, nil, err
	}
	return asset, file, nil
}

// DeleteAsset removes the file and its own metadata record. The category's
// directory disappears with the last file in it.
func (service *Service) DeleteAsset(context context.Context, bookID int, category filestore.Category) error {
	asset, err := service.assets.GetAsset(context, bookID, category)
	if err != nil {
		return err
	}

	if err := service.files.Remove(category, bookID, asset.Filename); err != nil && !errors.Is(err, filestore.ErrNotExist) {
		return mapFilesystemError(err)
	}
	if err := service.assets.DeleteAsset(context, asset.ID); err != nil {
		return err
	}

	service.logger.Info("book_asset_deleted",
		slog.Int("book_id", bookID),
		slog.String("category", string(category)),
	)
	return nil
}

// removeBookFiles clears every stored file and asset directory for a book.
func (service *Service) removeBookFiles(context context.Context, bookID int) error {
	assets, err := service.assets.ListAssets(context, bookID)
	if err != nil {
		return err
	}

	for _, asset := range assets {
		if err := service.files.Remove(asset.Category, bookID, asset.Filename); err != nil && !errors.Is(err, filestore.ErrNotExist) {
			return mapFilesystemError(err)
		}
	}
	if err := service.files.RemoveBook(bookID); err != nil {
		return mapFilesystemError(err)
	}
	return nil
}

// mapFilesystemError converts contention and permission failures on the
// shared asset directories into a client-retriable 400.
func mapFilesystemError(err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return apperr.BadRequest("Too many requests")
	}
	return apperr.Internal(err)
}
