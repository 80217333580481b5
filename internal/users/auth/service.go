// Copyright (c) 2026 Kryspinoff. All rights reserved.

/*
Package auth issues access tokens: login with a username or email, and
self-service registration when open registration is enabled.

Failed logins are throttled per identifier+IP through Redis so credential
stuffing cannot hammer the password hash comparison.
*/
package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/sec"
	"github.com/Kryspinoff/bookstore/internal/users/account"
)

// Finder looks up accounts by their login identifiers.
type Finder interface {
	FindByUsername(context context.Context, username string) (*account.Account, error)
	FindByEmail(context context.Context, email string) (*account.Account, error)
}

// Registrar creates new accounts on behalf of the registration endpoint.
type Registrar interface {
	Create(context context.Context, input account.CreateInput, role sec.Role) (*account.Account, error)
}

// Token is the response body of a successful login or registration.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Service implements the authentication flows.
type Service struct {
	finder    Finder
	registrar Registrar
	codec     *sec.TokenCodec
	throttle  Throttle
	logger    *slog.Logger

	openRegistration bool
}

func NewService(finder Finder, registrar Registrar, codec *sec.TokenCodec, throttle Throttle, openRegistration bool, logger *slog.Logger) *Service {
	return &Service{
		finder:           finder,
		registrar:        registrar,
		codec:            codec,
		throttle:         throttle,
		logger:           logger,
		openRegistration: openRegistration,
	}
}

// Login verifies the identifier+password pair and issues an access token.
//
// The identifier is treated as an email when it contains "@" and as a
// username otherwise; usernames cannot contain "@" so the two namespaces
// never collide. Lookup misses and password mismatches share one generic
// message to avoid confirming which identifiers exist.
func (service *Service) Login(ctx context.Context, identifier, password, clientIP string) (*Token, error) {
	if err := service.throttle.Allow(ctx, identifier, clientIP); err != nil {
		return nil, err
	}

	var (
		found *account.Account
		err   error
	)
	if strings.Contains(identifier, "@") {
		found, err = service.finder.FindByEmail(ctx, identifier)
	} else {
		found, err = service.finder.FindByUsername(ctx, identifier)
	}
	if err != nil {
		_ = service.throttle.RecordFailure(ctx, identifier, clientIP)
		return nil, apperr.BadRequest("Incorrect username/email or password")
	}

	if !sec.VerifyPassword(found.HashedPassword, password) {
		_ = service.throttle.RecordFailure(ctx, identifier, clientIP)
		return nil, apperr.BadRequest("Incorrect username/email or password")
	}

	if !found.IsActive {
		return nil, apperr.BadRequest("Inactive user")
	}

	_ = service.throttle.Reset(ctx, identifier, clientIP)
	return service.issue(found)
}

// Register creates a USER account and logs it straight in.
func (service *Service) Register(ctx context.Context, input account.CreateInput) (*Token, error) {
	if !service.openRegistration {
		return nil, apperr.Forbidden("Open registration is disabled")
	}

	created, err := service.registrar.Create(ctx, input, sec.RoleUser)
	if err != nil {
		return nil, err
	}

	service.logger.Info("account_registered", slog.String("username", created.Username))
	return service.issue(created)
}

func (service *Service) issue(acct *account.Account) (*Token, error) {
	signed, _, err := service.codec.Encode(acct.Username, acct.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Token{AccessToken: signed, TokenType: "bearer"}, nil
}
