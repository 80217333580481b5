package author

import (
	"context"
	"log/slog"

	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
	"github.com/Kryspinoff/bookstore/internal/platform/validate"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListAuthors(context context.Context, query string, limit, offset int) ([]*Author, int, error) {
	return service.repo.List(context, query, limit, offset)
}

func (service *Service) GetAuthor(context context.Context, id int) (*Author, error) {
	return service.repo.Get(context, id)
}

func (service *Service) GetAuthorByFullName(context context.Context, fullName string) (*Author, error) {
	return service.repo.GetByFullName(context, Normalize(fullName))
}

func (service *Service) CreateAuthor(context context.Context, fullName string) (*Author, error) {
	normalized := Normalize(fullName)
	if err := validateFullName(normalized); err != nil {
		return nil, err
	}

	created := &Author{FullName: normalized}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("author_created", slog.String("fullname", created.FullName))
	return created, nil
}

func (service *Service) UpdateAuthor(context context.Context, id int, fullName string) (*Author, error) {
	normalized := Normalize(fullName)
	if err := validateFullName(normalized); err != nil {
		return nil, err
	}

	updated := &Author{ID: id, FullName: normalized}
	if err := service.repo.Update(context, updated); err != nil {
		return nil, err
	}

	service.logger.Info("author_updated", slog.Int("author_id", id))
	return service.repo.Get(context, id)
}

func (service *Service) DeleteAuthor(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("author_deleted", slog.Int("author_id", id))
	return nil
}

// ResolveOrCreate maps normalized full names to author rows, creating the
// missing ones. The create step tolerates a concurrent insert of the same
// natural key by re-fetching instead of failing.
func (service *Service) ResolveOrCreate(context context.Context, fullNames []string) ([]Author, error) {
	resolved := make([]Author, 0, len(fullNames))

	for _, fullName := range fullNames {
		normalized := Normalize(fullName)
		if err := validateFullName(normalized); err != nil {
			return nil, err
		}

		existing, err := service.repo.GetByFullName(context, normalized)
		if err == nil {
			resolved = append(resolved, *existing)
			continue
		}
		if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != 404 {
			return nil, err
		}

		created := &Author{FullName: normalized}
		createErr := service.repo.Create(context, created)
		if createErr == nil {
			service.logger.Info("author_created", slog.String("fullname", created.FullName))
			resolved = append(resolved, *created)
			continue
		}

		// Lost the race against a concurrent insert of the same name.
		if appErr := apperr.As(createErr); appErr != nil && appErr.HTTPStatus == 409 {
			refetched, refetchErr := service.repo.GetByFullName(context, normalized)
			if refetchErr != nil {
				return nil, refetchErr
			}
			resolved = append(resolved, *refetched)
			continue
		}
		return nil, createErr
	}

	return resolved, nil
}

func validateFullName(fullName string) error {
	validator := &validate.Validator{}
	validator.Required(FieldFullName, fullName).
		MinLen(FieldFullName, fullName, MinNameLen).
		MaxLen(FieldFullName, fullName, MaxNameLen).
		PersonName(FieldFullName, fullName)
	return validator.Err()
}
