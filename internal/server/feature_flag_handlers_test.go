package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"secretguest/internal/featureflags"
	"secretguest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeatureFlags(t *testing.T) {
	app, s, db := setupServerTest(t)
	s.featureFlags = featureflags.NewManager("instant_matching=on,new_report_form=0%")

	admin := createTestUser(t, db, models.User{Email: "flags@example.com", Role: models.RoleAdmin}, "Password123!")

	req := httptest.NewRequest(http.MethodGet, "/api/admin/feature-flags", nil)
	req.Header.Set("Authorization", bearerToken(t, s, admin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Raw       map[string]string `json:"raw"`
		Evaluated map[string]bool   `json:"evaluated"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "on", body.Raw["instant_matching"])
	assert.True(t, body.Evaluated["instant_matching"])
	assert.False(t, body.Evaluated["new_report_form"])
}
