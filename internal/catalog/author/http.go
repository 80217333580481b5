package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listAuthors)
	router.Get("/{id}", handler.getAuthor)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Post("/", handler.createAuthor)
		adminRoute.Patch("/{id}", handler.updateAuthor)
		adminRoute.Delete("/{id}", handler.deleteAuthor)
	})
}

type authorPayload struct {
	FullName string `json:"fullname"`
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, req *http.Request) {
	paginationParams := pagination.FromRequest(req)
	query := req.URL.Query().Get("q")

	authors, total, err := handler.service.ListAuthors(req.Context(), query, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, authors, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getAuthor(writer http.ResponseWriter, req *http.Request) {
	authorID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	found, err := handler.service.GetAuthor(req.Context(), authorID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createAuthor(writer http.ResponseWriter, req *http.Request) {
	var input authorPayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.service.CreateAuthor(req.Context(), input.FullName)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateAuthor(writer http.ResponseWriter, req *http.Request) {
	authorID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input authorPayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	updated, err := handler.service.UpdateAuthor(req.Context(), authorID, input.FullName)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteAuthor(writer http.ResponseWriter, req *http.Request) {
	authorID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.DeleteAuthor(req.Context(), authorID); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}
