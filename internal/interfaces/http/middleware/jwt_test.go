package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	appidentity "github.com/silverledger/backend/internal/application/identity"
	"github.com/silverledger/backend/internal/domain/shared"
	"github.com/silverledger/backend/internal/interfaces/http/dto"
	"github.com/silverledger/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
)

type stubAuthenticator struct {
	users map[string]appidentity.UserResponse
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*appidentity.UserResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[token]
	if !ok {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Token is invalid")
	}
	return &u, nil
}

func newAuthRouter(a Authenticator, roles ...string) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	chain := []gin.HandlerFunc{JWTAuth(a, nil)}
	if len(roles) > 0 {
		chain = append(chain, RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
			"id":   GetAuthUserID(c),
			"user": GetAuthUsername(c),
			"role": GetAuthRole(c),
		}))
	})
	r.GET("/protected", chain...)
	return r
}

var testUsers = stubAuthenticator{users: map[string]appidentity.UserResponse{
	"admin-token":    {ID: "u-1", Username: "owner", Role: "Admin"},
	"employee-token": {ID: "u-2", Username: "clerk", Role: "Employee"},
}}

func TestJWTAuth_ValidToken(t *testing.T) {
	w := testutil.Do(t, newAuthRouter(testUsers), testutil.Request{
		Path:    "/protected",
		Headers: map[string]string{"Authorization": "Bearer employee-token"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	data := testutil.Data(t, w)
	assert.Equal(t, "u-2", data["id"])
	assert.Equal(t, "clerk", data["user"])
	assert.Equal(t, "Employee", data["role"])
}

func TestJWTAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"empty token", "Bearer ", dto.ErrCodeUnauthorized},
		{"unknown token", "Bearer nope", dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.Request{Path: "/protected"}
			if tt.header != "" {
				req.Headers = map[string]string{"Authorization": tt.header}
			}
			w := testutil.Do(t, newAuthRouter(testUsers), req)
			testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, tt.code)
		})
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	a := stubAuthenticator{err: shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")}
	w := testutil.Do(t, newAuthRouter(a), testutil.Request{
		Path:    "/protected",
		Headers: map[string]string{"Authorization": "Bearer old"},
	})
	testutil.AssertErrorResponse(t, w, http.StatusUnauthorized, dto.ErrCodeTokenExpired)
}

func TestJWTAuth_StoreFailure(t *testing.T) {
	a := stubAuthenticator{err: errors.New("connection refused")}
	w := testutil.Do(t, newAuthRouter(a), testutil.Request{
		Path:    "/protected",
		Headers: map[string]string{"Authorization": "Bearer admin-token"},
	})
	testutil.AssertErrorResponse(t, w, http.StatusInternalServerError, dto.ErrCodeInternal)
}

func TestRequireRoles(t *testing.T) {
	router := newAuthRouter(testUsers, "Admin")

	w := testutil.Do(t, router, testutil.Request{
		Path:    "/protected",
		Headers: map[string]string{"Authorization": "Bearer admin-token"},
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(t, router, testutil.Request{
		Path:    "/protected",
		Headers: map[string]string{"Authorization": "Bearer employee-token"},
	})
	testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
}
