package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequiredServices(t *testing.T) {
	assert.Nil(t, ParseRequiredServices(""))
	assert.Equal(t, []string{"media", "redis"}, ParseRequiredServices(" Media, ,redis "))
}

func TestValidateServices(t *testing.T) {
	down := errors.New("connection refused")
	var called []string
	checks := map[string]Check{
		"media": func(ctx context.Context) error {
			called = append(called, "media")
			return nil
		},
		"redis": func(ctx context.Context) error {
			called = append(called, "redis")
			return down
		},
	}

	t.Run("optional failure is tolerated", func(t *testing.T) {
		called = nil
		require.NoError(t, NewServiceValidator(checks, []string{"media"}).ValidateServices(context.Background()))
		assert.Equal(t, []string{"media", "redis"}, called)
	})

	t.Run("required failure aborts", func(t *testing.T) {
		err := NewServiceValidator(checks, []string{"redis"}).ValidateServices(context.Background())
		assert.ErrorIs(t, err, down)
		assert.Contains(t, err.Error(), "redis")
	})

	t.Run("unknown required service", func(t *testing.T) {
		err := NewServiceValidator(checks, []string{"gorse"}).ValidateServices(context.Background())
		assert.ErrorContains(t, err, `unknown required service "gorse"`)
	})
}
