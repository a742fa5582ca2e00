package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/response"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials.Wrap(errors.New("bcrypt mismatch")))
	assert.ErrorIs(t, wrapped, ErrInvalidCredentials)
	assert.NotErrorIs(t, wrapped, ErrInvalidToken)

	cause := errors.New("socket closed")
	internal := Internal("failed to fetch", cause)
	assert.ErrorIs(t, internal, cause)
	assert.Equal(t, "failed to fetch: socket closed", internal.Error())
}

func TestFrom(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, From(NotFound("gone")).Code)

	plain := From(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, plain.Code)
	assert.Equal(t, ErrInternalServer.Message, plain.Message)
}

func render(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, response.Envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(), ErrorMiddleware())
	r.GET("/", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestErrorMiddleware(t *testing.T) {
	t.Run("App Error", func(t *testing.T) {
		w, env := render(t, func(c *gin.Context) {
			c.Error(Validation("invalid product", []string{"Price failed on 'gt'"}))
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "invalid product", env.Message)
		assert.Equal(t, []string{"Price failed on 'gt'"}, env.Errors)
		assert.Nil(t, env.Data)
	})

	t.Run("Internal Cause Hidden", func(t *testing.T) {
		w, env := render(t, func(c *gin.Context) {
			c.Error(Internal("failed to save", errors.New("E11000 duplicate key")))
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "failed to save", env.Message)
		assert.NotContains(t, w.Body.String(), "E11000")
	})

	t.Run("Written Response Untouched", func(t *testing.T) {
		w, env := render(t, func(c *gin.Context) {
			response.OK(c, "fine", "done")
			c.Error(errors.New("late"))
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
	})

	t.Run("Panic", func(t *testing.T) {
		w, env := render(t, func(c *gin.Context) { panic("nil map") })
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, ErrInternalServer.Message, env.Message)
	})
}
