package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	Method string `validate:"required,oneof=GET POST"`
	Path   string `validate:"required,startswith=/"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		err := ValidateStruct(&testRequest{Method: "GET", Path: "/categories"})
		assert.NoError(t, err)
	})

	t.Run("missing and invalid fields", func(t *testing.T) {
		err := ValidateStruct(&testRequest{Method: "TRACE"})
		require.Error(t, err)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "validation failed", vErr.Error())
		assert.Equal(t, "Method must be one of: GET POST", vErr.Fields["Method"])
		assert.Equal(t, "Path is required", vErr.Fields["Path"])
		assert.Len(t, vErr.Details(), 2)
	})

	t.Run("json names are reported", func(t *testing.T) {
		body := struct {
			Username string `json:"username" validate:"required"`
			Password string `json:"password,omitempty" validate:"required,max=4"`
		}{Password: "too-long"}

		err := ValidateStruct(&body)

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "username is required", vErr.Fields["username"])
		assert.Equal(t, "password must be at most 4", vErr.Fields["password"])
	})

	t.Run("startswith", func(t *testing.T) {
		err := ValidateStruct(&testRequest{Method: "POST", Path: "categories"})

		var vErr *ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields["Path"], `must start with "/"`)
	})
}
