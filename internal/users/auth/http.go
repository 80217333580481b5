// Copyright (c) 2026 Kryspinoff. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Kryspinoff/bookstore/internal/platform/middleware"
	"github.com/Kryspinoff/bookstore/internal/platform/request"
	"github.com/Kryspinoff/bookstore/internal/platform/respond"
	"github.com/Kryspinoff/bookstore/internal/users/account"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/login", handler.login)
	router.Post("/register", handler.register)
}

type loginPayload struct {
	// Username accepts either a username or an email address.
	Username string `json:"username"`
	Password string `json:"password"`
}

func (handler *Handler) login(writer http.ResponseWriter, req *http.Request) {
	var input loginPayload
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	token, err := handler.service.Login(req.Context(), input.Username, input.Password, clientIP(req))
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.OK(writer, token)
}

func (handler *Handler) register(writer http.ResponseWriter, req *http.Request) {
	var input account.CreateInput
	if err := request.DecodeJSON(req, &input); err != nil {
		respond.Error(writer, req, err)
		return
	}

	token, err := handler.service.Register(req.Context(), input)
	if err != nil {
		respond.Error(writer, req, err)
		return
	}
	respond.Created(writer, token)
}

// clientIP extracts the caller address for throttle keying, honoring proxy
// headers before falling back to the socket address.
func clientIP(req *http.Request) string {
	return middleware.RealIP(req)
}
