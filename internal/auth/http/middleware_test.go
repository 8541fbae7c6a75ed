package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/legacyvault/internal/auth/domain"
	"github.com/allisson/legacyvault/internal/auth/usecase/mocks"
	apperrors "github.com/allisson/legacyvault/internal/errors"
)

func newAuthenticatedRouter(t *testing.T, uc *mocks.MockUseCase) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	handler, _ := setupTestHandler(t)
	router := gin.New()
	router.Use(AuthenticationMiddleware(uc, handler.logger))
	router.GET("/owned/:id", func(c *gin.Context) {
		principal, ok := GetPrincipal(c.Request.Context())
		require.True(t, ok)

		if err := AuthorizeOwner(c, 7); err != nil {
			c.Status(http.StatusForbidden)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": principal.UserID})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		setupMock  func(m *mocks.MockUseCase)
		wantStatus int
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong scheme",
			header:     "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "empty bearer token",
			header:     "Bearer   ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "expired token",
			header: "Bearer expired",
			setupMock: func(m *mocks.MockUseCase) {
				m.On("Authenticate", mock.Anything, "expired").Return(nil, authDomain.ErrInvalidToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "inactive user",
			header: "Bearer inactive",
			setupMock: func(m *mocks.MockUseCase) {
				m.On("Authenticate", mock.Anything, "inactive").Return(nil, apperrors.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:   "owner passes",
			header: "bearer owner-token",
			setupMock: func(m *mocks.MockUseCase) {
				m.On("Authenticate", mock.Anything, "owner-token").Return(&authDomain.Principal{UserID: 7}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "other user is forbidden",
			header: "Bearer other-token",
			setupMock: func(m *mocks.MockUseCase) {
				m.On("Authenticate", mock.Anything, "other-token").Return(&authDomain.Principal{UserID: 8}, nil)
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mocks.MockUseCase{}
			if tt.setupMock != nil {
				tt.setupMock(uc)
			}
			router := newAuthenticatedRouter(t, uc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/owned/7", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			uc.AssertExpectations(t)
		})
	}
}

func TestAuthorizeOwner_WithoutPrincipal(t *testing.T) {
	c, _ := createTestContext(http.MethodGet, "/", nil)

	assert.NoError(t, AuthorizeOwner(c, 42))
}

func TestGetPrincipal(t *testing.T) {
	_, ok := GetPrincipal(context.Background())
	assert.False(t, ok)

	_, ok = GetPrincipal(WithPrincipal(context.Background(), nil))
	assert.False(t, ok)

	principal, ok := GetPrincipal(WithPrincipal(context.Background(), &authDomain.Principal{UserID: 3}))
	require.True(t, ok)
	assert.Equal(t, int64(3), principal.UserID)
}
