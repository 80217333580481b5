package book

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kryspinoff/bookstore/internal/platform/middleware"
	"github.com/Kryspinoff/bookstore/internal/platform/request"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
	"github.com/Kryspinoff/bookstore/pkg/pagination"
)

// OwnershipChecker reports whether an account owns a book (has purchased it).
// Implemented by the accounts store; injected to keep the packages decoupled.
type OwnershipChecker interface {
	OwnsBook(context context.Context, accountID string, bookID int) (bool, error)
}

type Handler struct {
	service *Service
	owners  OwnershipChecker
}

func NewHandler(service *Service, owners OwnershipChecker) *Handler {
	return &Handler{service: service, owners: owners}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Post("/", handler.createBook)
		adminRoute.Patch("/{id}", handler.updateBook)
		adminRoute.Delete("/{id}", handler.deleteBook)
	})

	handler.registerAssetRoutes(router)
}

// BooksByAuthor serves the author's book list. Mounted under /authors/{id}/books.
func (handler *Handler) BooksByAuthor(writer http.ResponseWriter, req *http.Request) {
	handler.listByRelation(writer, req, handler.service.ListBooksByAuthor)
}

// BooksByGenre serves the genre's book list. Mounted under /genres/{id}/books.
func (handler *Handler) BooksByGenre(writer http.ResponseWriter, req *http.Request) {
	handler.listByRelation(writer, req, handler.service.ListBooksByGenre)
}

func (handler *Handler) listByRelation(
	writer http.ResponseWriter,
	req *http.Request,
	list func(context.Context, int, int, int) ([]*Book, int, error),
) {
	relationID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	paginationParams := pagination.FromRequest(req)
	books, total, err := list(req.Context(), relationID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) listBooks(writer http.ResponseWriter, req *http.Request) {
	paginationParams := pagination.FromRequest(req)
	filter := Filter{
		Query:    req.URL.Query().Get("q"),
		Language: req.URL.Query().Get("language"),
	}

	books, total, err := handler.service.ListBooks(req.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getBook(writer http.ResponseWriter, req *http.Request) {
	bookID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	found, err := handler.service.GetBook(req.Context(), bookID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createBook(writer http.ResponseWriter, req *http.Request) {
	var input CreateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.service.CreateBook(req.Context(), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, req *http.Request) {
	bookID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input UpdateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	updated, err := handler.service.UpdateBook(req.Context(), bookID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, req *http.Request) {
	bookID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.DeleteBook(req.Context(), bookID); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}
