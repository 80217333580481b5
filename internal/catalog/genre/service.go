package genre

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

func (service *Service) ListGenres(context context.Context, query string, limit, offset int) ([]*Genre, int, error) {
	return service.repo.List(context, query, limit, offset)
}

func (service *Service) GetGenre(context context.Context, id int) (*Genre, error) {
	return service.repo.Get(context, id)
}

func (service *Service) GetGenreByName(context context.Context, name string) (*Genre, error) {
	return service.repo.GetByName(context, Normalize(name))
}

func (service *Service) CreateGenre(context context.Context, name string) (*Genre, error) {
	normalized := Normalize(name)
	if err := validateName(normalized); err != nil {
		return nil, err
	}

	created := &Genre{Name: normalized}
	if err := service.repo.Create(context, created); err != nil {
		return nil, err
	}

	service.logger.Info("genre_created", slog.String("name", created.Name))
	return created, nil
}

func (service *Service) UpdateGenre(context context.Context, id int, name string) (*Genre, error) {
	normalized := Normalize(name)
	if err := validateName(normalized); err != nil {
		return nil, err
	}

	updated := &Genre{ID: id, Name: normalized}
	if err := service.repo.Update(context, updated); err != nil {
		return nil, err
	}

	service.logger.Info("genre_updated", slog.Int("genre_id", id))
	return service.repo.Get(context, id)
}

func (service *Service) DeleteGenre(context context.Context, id int) error {
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("genre_deleted", slog.Int("genre_id", id))
	return nil
}

// ResolveOrCreate maps normalized names to genre rows, creating the missing
// ones. The create step tolerates a concurrent insert of the same natural key
// by re-fetching instead of failing.
func (service *Service) ResolveOrCreate(context context.Context, names []string) ([]Genre, error) {
	resolved := make([]Genre, 0, len(names))

	for _, name := range names {
		normalized := Normalize(name)
		if err := validateName(normalized); err != nil {
			return nil, err
		}

		existing, err := service.repo.GetByName(context, normalized)
		if err == nil {
			resolved = append(resolved, *existing)
			continue
		}
		if appErr := apperr.As(err); appErr == nil || appErr.HTTPStatus != 404 {
			return nil, err
		}

		created := &Genre{Name: normalized}
		createErr := service.repo.Create(context, created)
		if createErr == nil {
			service.logger.Info("genre_created", slog.String("name", created.Name))
			resolved = append(resolved, *created)
			continue
		}

		// Lost the race against a concurrent insert of the same name.
		if appErr := apperr.As(createErr); appErr != nil && appErr.HTTPStatus == 409 {
			refetched, refetchErr := service.repo.GetByName(context, normalized)
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

func validateName(name string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).
		MinLen(FieldName, name, MinNameLen).
		MaxLen(FieldName, name, MaxNameLen).
		GenreName(FieldName, name)
	return validator.Err()
}
