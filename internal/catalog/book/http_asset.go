package book

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/constants"
	"github.com/Kryspinoff/bookstore/internal/platform/filestore"
	"github.com/Kryspinoff/bookstore/internal/platform/middleware"
	"github.com/Kryspinoff/bookstore/internal/platform/request"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
)

// registerAssetRoutes mounts the per-category file endpoints under
// /books/{id}. The cover image and the short (preview) PDF download freely;
// the full PDF requires ownership of the book or a catalog-manager role.
func (handler *Handler) registerAssetRoutes(router chi.Router) {
	categories := []struct {
		path     string
		category filestore.Category
	}{
		{path: "image", category: filestore.CategoryImage},
		{path: "pdf", category: filestore.CategoryPDF},
		{path: "short_pdf", category: filestore.CategoryShortPDF},
	}

	for _, entry := range categories {
		category := entry.category
		router.Route("/{id}/"+entry.path, func(assetRoute chi.Router) {
			if category == filestore.CategoryPDF {
				assetRoute.With(middleware.RequireAuth).Get("/", handler.downloadOwnedAsset(category))
			} else {
				assetRoute.Get("/", handler.downloadAsset(category))
			}

			assetRoute.Group(func(adminRoute chi.Router) {
				adminRoute.Use(middleware.RequireAdmin)

				adminRoute.Post("/", handler.uploadAsset(category))
				adminRoute.Put("/", handler.replaceAsset(category))
				adminRoute.Delete("/", handler.deleteAsset(category))
			})
		})
	}
}

// openMultipartFile bounds the upload size and extracts the "file" part.
func openMultipartFile(writer http.ResponseWriter, req *http.Request) (io.ReadCloser, string, string, error) {
	req.Body = http.MaxBytesReader(writer, req.Body, constants.MaxUploadBytes)
	if err := req.ParseMultipartForm(constants.MaxUploadBytes); err != nil {
		return nil, "", "", apperr.ValidationError("Expected a multipart form with a 'file' field")
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return nil, "", "", apperr.ValidationError("Expected a multipart form with a 'file' field")
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return file, header.Filename, contentType, nil
}

func (handler *Handler) uploadAsset(category filestore.Category) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		bookID, err := request.IntParam(req, "id")
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		file, filename, contentType, err := openMultipartFile(writer, req)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}
		defer file.Close()

		asset, err := handler.service.UploadAsset(req.Context(), bookID, category, filename, contentType, file)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}
		respond.Created(writer, asset)
	}
}

func (handler *Handler) replaceAsset(category filestore.Category) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		bookID, err := request.IntParam(req, "id")
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		file, filename, contentType, err := openMultipartFile(writer, req)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}
		defer file.Close()

		asset, err := handler.service.ReplaceAsset(req.Context(), bookID, category, filename, contentType, file)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}
		respond.OK(writer, asset)
	}
}

func (handler *Handler) deleteAsset(category filestore.Category) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		bookID, err := request.IntParam(req, "id")
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		if err := handler.service.DeleteAsset(req.Context(), bookID, category); err != nil {
			respond.Error(writer, req, err)
			return
		}
		respond.NoContent(writer)
	}
}

func (handler *Handler) downloadAsset(category filestore.Category) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		bookID, err := request.IntParam(req, "id")
		if err != nil {
			respond.Error(writer, req, err)
			return
		}
		handler.serveAsset(writer, req, bookID, category)
	}
}

// downloadOwnedAsset gates the full PDF behind ownership. Catalog managers
// bypass the check.
func (handler *Handler) downloadOwnedAsset(category filestore.Category) http.HandlerFunc {
	return func(writer http.ResponseWriter, req *http.Request) {
		bookID, err := request.IntParam(req, "id")
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		identity, err := request.RequiredIdentity(req)
		if err != nil {
			respond.Error(writer, req, err)
			return
		}

		if !identity.Role.IsAdmin() {
			owns, err := handler.owners.OwnsBook(req.Context(), identity.AccountID, bookID)
			if err != nil {
				respond.Error(writer, req, err)
				return
			}
			if !owns {
				respond.Error(writer, req, apperr.Forbidden("You do not own this book"))
				return
			}
		}

		handler.serveAsset(writer, req, bookID, category)
	}
}

func (handler *Handler) serveAsset(writer http.ResponseWriter, req *http.Request, bookID int, category filestore.Category) {
	asset, file, err := handler.service.OpenAsset(req.Context(), bookID, category)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	defer file.Close()

	writer.Header().Set("Content-Type", asset.ContentType)
	writer.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", asset.Filename))
	if info, statErr := file.Stat(); statErr == nil {
		writer.Header().Set("Content-Length", fmt.Sprintf("%d", info.Size()))
	}

	if _, err := io.Copy(writer, file); err != nil {
		// Headers already flushed, nothing sensible left to send.
		return
	}
}
