package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/NKaram/inkwell_backend/models"
)

func TestCanModify(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()

	assert.True(t, CanModify(owner, models.RoleUser, owner))
	assert.True(t, CanModify(other, models.RoleAdmin, owner))
	assert.False(t, CanModify(other, models.RoleUser, owner))
	assert.False(t, CanModify(other, "", owner))
}

func runRequireRole(t *testing.T, role string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != "" {
		c.Set("role", role)
	}

	handler := RequireRole(models.RoleAdmin)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))

	return rec
}

func TestRequireRole(t *testing.T) {
	assert.Equal(t, http.StatusOK, runRequireRole(t, models.RoleAdmin).Code)
	assert.Equal(t, http.StatusForbidden, runRequireRole(t, models.RoleUser).Code)
	assert.Equal(t, http.StatusUnauthorized, runRequireRole(t, "").Code)
}
