package order

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
	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/", handler.listOwn)
	router.Get("/{id}", handler.get)

	router.With(middleware.RequireAdmin).Get("/all", handler.listAll)
}

func (handler *Handler) create(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input CreateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	created, err := handler.service.Create(req.Context(), accountID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Created(writer, created)
}

func (handler *Handler) listOwn(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	paginationParams := pagination.FromRequest(req)
	orders, total, err := handler.service.ListOwn(req.Context(), accountID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Paginated(writer, orders, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, req *http.Request) {
	orderID, err := request.IntParam(req, "id")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	identity, err := request.RequiredIdentity(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	found, err := handler.service.Get(req.Context(), orderID, identity)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, found)
}

func (handler *Handler) listAll(writer http.ResponseWriter, req *http.Request) {
	paginationParams := pagination.FromRequest(req)

	orders, total, err := handler.service.ListAll(req.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Paginated(writer, orders, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}
