package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kryspinoff/bookstore/internal/catalog/author"
	"github.com/Kryspinoff/bookstore/internal/catalog/genre"
	"github.com/Kryspinoff/bookstore/internal/platform/apperr"
)

func TestDetectDuplicatesNone(t *testing.T) {
	err := DetectDuplicates(FieldAuthors, []string{"Name A", "Name B"}, author.Normalize)
	assert.NoError(t, err)

	assert.NoError(t, DetectDuplicates(FieldGenres, nil, genre.Normalize))
}

func TestDetectDuplicatesExact(t *testing.T) {
	err := DetectDuplicates(FieldAuthors, []string{"Name A", "Name A"}, author.Normalize)
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.HTTPStatus)
	assert.Equal(t, FieldAuthors, appErr.Extra["name"])
	assert.Equal(t, []string{"Name A", "Name A"}, appErr.Extra["objects"])
	assert.Equal(t, []string{"Name A"}, appErr.Extra["uniq"])
}

func TestDetectDuplicatesAfterNormalization(t *testing.T) {
	// "Action" and "action" normalize to the same genre key.
	err := DetectDuplicates(FieldGenres, []string{"Action", "action"}, genre.Normalize)
	require.Error(t, err)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, []string{"action"}, appErr.Extra["uniq"])
}
