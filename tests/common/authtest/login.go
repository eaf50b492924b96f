//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	reqdto "slotlink/internal/handler/dto/request"
	"slotlink/tests/common/dbtest"
	"slotlink/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		reqdto.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	accessCookie := httptest.ExtractCookie(w, "access_token")
	require.NotNil(t, accessCookie, "Access token not found in cookies")
	require.NotEmpty(t, accessCookie.Value, "Access token cookie is empty")

	return accessCookie.Value
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, name string) string {
	t.Helper()
	dbtest.CreateTestTechnician(t, db, email, name)
	return LoginUser(t, router, email, "password123")
}
