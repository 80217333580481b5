// Copyright (c) 2026 Kryspinoff. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kryspinoff/bookstore/internal/platform/middleware"
	"github.com/Kryspinoff/bookstore/internal/platform/request"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterProfileRoutes mounts the self-service routes under /profile.
// Every route requires an authenticated, active account.
func (handler *Handler) RegisterProfileRoutes(router chi.Router) {
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getProfile)
	router.Patch("/", handler.updateProfile)
	router.Put("/password", handler.changePassword)
	router.Delete("/", handler.deleteOwn)

	router.Get("/wishlist", handler.listWishlist)
	router.Post("/wishlist/{bookID}", handler.toggleWishlist)
	router.Get("/books", handler.listOwnedBooks)
}

// RegisterAdminRoutes mounts the account administration routes under /users.
// Listing and inspection need ADMIN; role changes and deletion need
// SUPER_ADMIN.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Get("/", handler.listAccounts)
		adminRoute.Get("/{id}", handler.getAccount)
	})

	router.Group(func(superRoute chi.Router) {
		superRoute.Use(middleware.RequireSuperAdmin)

		superRoute.Patch("/{id}/role", handler.setRole)
		superRoute.Patch("/{id}/active", handler.setActive)
		superRoute.Delete("/{id}", handler.adminDelete)
	})
}

// # Self-Service Handlers

func (handler *Handler) getProfile(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	account, err := handler.service.GetProfile(req.Context(), accountID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, account)
}

func (handler *Handler) updateProfile(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input UpdateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	account, err := handler.service.UpdateProfile(req.Context(), accountID, input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, account)
}

type changePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (handler *Handler) changePassword(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input changePasswordPayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.ChangePassword(req.Context(), accountID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}

type deleteOwnPayload struct {
	Password string `json:"password"`
}

func (handler *Handler) deleteOwn(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	var input deleteOwnPayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	if err := handler.service.DeleteOwn(req.Context(), accountID, input.Password); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}

// # Wishlist & Ownership Handlers

func (handler *Handler) listWishlist(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	books, err := handler.service.ListWishlist(req.Context(), accountID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, books)
}

type wishlistState struct {
	BookID     int  `json:"book_id"`
	Wishlisted bool `json:"wishlisted"`
}

func (handler *Handler) toggleWishlist(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	bookID, err := request.IntParam(req, "bookID")
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	wishlisted, err := handler.service.ToggleWishlist(req.Context(), accountID, bookID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, wishlistState{BookID: bookID, Wishlisted: wishlisted})
}

func (handler *Handler) listOwnedBooks(writer http.ResponseWriter, req *http.Request) {
	accountID, err := request.RequiredAccountID(req)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}

	books, err := handler.service.ListOwnedBooks(req.Context(), accountID)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, books)
}

// # Administration Handlers

func (handler *Handler) listAccounts(writer http.ResponseWriter, req *http.Request) {
	paginationParams := pagination.FromRequest(req)

	accounts, total, err := handler.service.ListAccounts(req.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Paginated(writer, accounts, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getAccount(writer http.ResponseWriter, req *http.Request) {
	account, err := handler.service.GetAccount(req.Context(), request.Param(req, "id"))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, account)
}

type setRolePayload struct {
	Role sec.Role `json:"role"`
}

func (handler *Handler) setRole(writer http.ResponseWriter, req *http.Request) {
	var input setRolePayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	account, err := handler.service.SetRole(req.Context(), request.Param(req, "id"), input.Role)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, account)
}

type setActivePayload struct {
	IsActive bool `json:"is_active"`
}

func (handler *Handler) setActive(writer http.ResponseWriter, req *http.Request) {
	var input setActivePayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	account, err := handler.service.SetActive(req.Context(), request.Param(req, "id"), input.IsActive)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, account)
}

func (handler *Handler) adminDelete(writer http.ResponseWriter, req *http.Request) {
	if err := handler.service.AdminDelete(req.Context(), request.Param(req, "id")); err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.NoContent(writer)
}
