package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/middleware"
	"github.com/Kryspinoff/bookstore/internal/platform/request"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
	"github.com/Kryspinoff/bookstore/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterBookRoutes mounts the per-book review routes. The surrounding
// router provides the {bookID} parameter.
func (handler *Handler) RegisterBookRoutes(router chi.Router) {
	router.Get("/", handler.listByBook)
	router.With(middleware.RequireAuth).Post("/", handler.create)
}

// RegisterRoutes mounts the standalone review routes ( /reviews/{id} ).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Patch("/{id}", handler.update)
		authed.Delete("/{id}", handler.delete)
	})
}

func (handler *Handler) listByBook(writer http.ResponseWriter, req *http.Request) {
	bookID, err := request.IntParam(req, "bookID")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	paginationParams := pagination.FromRequest(req)
	reviews, total, err := handler.service.ListByBook(req.Context(), bookID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, reviews, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	bookID, err := request.IntParam(req, "bookID")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	identity, err := request.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	accountID, err := uuid.Parse(identity.AccountID)
	if err != nil {
		respond.Error(writer, req, apperr.Internal(err))
		return
	}

	var input CreateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.service.Create(req.Context(), bookID, accountID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) update(writer http.ResponseWriter, req *http.Request) {
	reviewID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	identity, err := request.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input UpdateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	updated, err := handler.service.Update(req.Context(), reviewID, identity, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) delete(writer http.ResponseWriter, req *http.Request) {
	reviewID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	identity, err := request.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.Delete(req.Context(), reviewID, identity); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}
