package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/rifaamiga/raffle-api/internal/domain"
	"github.com/rifaamiga/raffle-api/internal/service"
)

type stubUserService struct {
	getUser func(ctx context.Context, id uint) (domain.User, error)
}

func (s *stubUserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	return s.getUser(ctx, id)
}

func newUserRouter(svc *stubUserService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewUserHandler(svc)
	router := gin.New()
	router.GET("/users/:userID", handler.HandleGetUser)

	return router
}

func TestHandleGetUser(t *testing.T) {
	t.Run("returns the user", func(t *testing.T) {
		svc := &stubUserService{
			getUser: func(_ context.Context, id uint) (domain.User, error) {
				assert.Equal(t, uint(42), id)
				return domain.User{ID: 42, Email: "admin@example.com"}, nil
			},
		}
		router := newUserRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/42", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin@example.com")
	})

	t.Run("404 on unknown user", func(t *testing.T) {
		svc := &stubUserService{
			getUser: func(context.Context, uint) (domain.User, error) {
				return domain.User{}, service.ErrUserNotFound
			},
		}
		router := newUserRouter(svc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/99", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("400 on a malformed ID", func(t *testing.T) {
		router := newUserRouter(&stubUserService{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/users/abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
