package genre

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
	router.Get("/", handler.listGenres)
	router.Get("/{id}", handler.getGenre)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Post("/", handler.createGenre)
		adminRoute.Patch("/{id}", handler.updateGenre)
		adminRoute.Delete("/{id}", handler.deleteGenre)
	})
}

type genrePayload struct {
	Name string `json:"name"`
}

func (handler *Handler) listGenres(writer http.ResponseWriter, req *http.Request) {
	paginationParams := pagination.FromRequest(req)
	query := req.URL.Query().Get("q")

	genres, total, err := handler.service.ListGenres(req.Context(), query, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	respond.Paginated(writer, genres, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getGenre(writer http.ResponseWriter, req *http.Request) {
	genreID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	found, err := handler.service.GetGenre(req.Context(), genreID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) createGenre(writer http.ResponseWriter, req *http.Request) {
	var input genrePayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.service.CreateGenre(req.Context(), input.Name)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) updateGenre(writer http.ResponseWriter, req *http.Request) {
	genreID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input genrePayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	updated, err := handler.service.UpdateGenre(req.Context(), genreID, input.Name)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, updated)
}

func (handler *Handler) deleteGenre(writer http.ResponseWriter, req *http.Request) {
	genreID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.DeleteGenre(req.Context(), genreID); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}
