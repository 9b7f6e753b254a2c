package server

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"secretguest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validApplicationBody() map[string]any {
	return map[string]any{
		"email":        "applicant@example.com",
		"phone":        "+351000000001",
		"home_city":    "Lisbon",
		"desired_city": "Porto",
		"travel_party": "b",
		"answers": map[string]string{
			"q4": "b", "q5": "b", "q6": "b", "q7": "b", "q8": "a",
		},
		"review": "Stayed at a quiet riverside guesthouse last spring.",
	}
}

// multipartUpload builds a multipart request with n files under the field.
func multipartUpload(t *testing.T, target, field string, n int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for i := 0; i < n; i++ {
		part, err := writer.CreateFormFile(field, fmt.Sprintf("photo%d.jpg", i))
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestAnonymousApplicationLifecycle(t *testing.T) {
	app, _, db := setupServerTest(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/applications/", validApplicationBody()))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Application
	decodeBody(t, resp, &created)
	assert.Equal(t, models.ApplicationStatusDraft, created.Status)
	assert.Nil(t, created.UserID)

	target := fmt.Sprintf("/api/applications/%d", created.ID)

	// Submission without photos is refused
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, target+"/submit", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Attach the two required photos
	resp, err = app.Test(multipartUpload(t, target+"/photos", "photo", 2))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Submit scores and decides in one step; a perfect questionnaire without
	// account bonuses lands in the accepted band.
	resp, err = app.Test(httptest.NewRequest(http.MethodPost, target+"/submit", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decided models.Application
	decodeBody(t, resp, &decided)
	assert.Equal(t, models.ApplicationStatusAccepted, decided.Status)
	require.NotNil(t, decided.Score)
	assert.Equal(t, 12, *decided.Score)
	assert.NotEmpty(t, decided.ReviewerComment)

	// The decided application is terminal, so the same email may open a
	// fresh draft immediately.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/applications/", validApplicationBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var count int64
	db.Model(&models.Application{}).Count(&count)
	assert.EqualValues(t, 2, count)
}

func TestAnonymousDuplicateDraftConflicts(t *testing.T) {
	app, _, _ := setupServerTest(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/applications/", validApplicationBody()))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// The first draft is still open, so the email is locked out.
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/applications/", validApplicationBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestApplicationValidation(t *testing.T) {
	app, _, _ := setupServerTest(t)

	body := validApplicationBody()
	body["email"] = "not-an-email"
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/applications/", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	body = validApplicationBody()
	body["answers"] = map[string]string{"q4": "z"}
	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/api/applications/", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestAuthenticatedApplicationEligibility(t *testing.T) {
	app, s, db := setupServerTest(t)

	// Unverified candidates fail the eligibility gates.
	user := createTestUser(t, db, models.User{Email: "newbie@example.com"}, "Password123!")

	req := jsonRequest(t, http.MethodPost, "/api/applications/", validApplicationBody())
	req.Header.Set("Authorization", bearerToken(t, s, user))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/eligibility", nil)
	req.Header.Set("Authorization", bearerToken(t, s, user))
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var eligibility struct {
		Eligible bool   `json:"eligible"`
		Reason   string `json:"reason"`
	}
	decodeBody(t, resp, &eligibility)
	assert.False(t, eligibility.Eligible)
	assert.NotEmpty(t, eligibility.Reason)
}

func TestApplicationOwnershipHidden(t *testing.T) {
	app, s, db := setupServerTest(t)

	owner := createTestUser(t, db, models.User{Email: "owner@example.com"}, "Password123!")
	stranger := createTestUser(t, db, models.User{Email: "stranger@example.com"}, "Password123!")

	application := models.Application{
		UserID: &owner.ID,
		Email:  owner.Email,
		Phone:  "+351000000002",
		Status: models.ApplicationStatusDraft,
	}
	require.NoError(t, db.Create(&application).Error)

	target := fmt.Sprintf("/api/applications/%d", application.ID)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", bearerToken(t, s, stranger))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", bearerToken(t, s, owner))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminApplicationDecision(t *testing.T) {
	app, s, db := setupServerTest(t)
	admin := createTestUser(t, db, models.User{Email: "admin@example.com", Role: models.RoleAdmin}, "Password123!")
	candidate := createTestUser(t, db, models.User{Email: "cand@example.com"}, "Password123!")

	application := models.Application{
		UserID: &candidate.ID,
		Email:  candidate.Email,
		Phone:  "+351000000003",
		Status: models.ApplicationStatusInReview,
	}
	require.NoError(t, db.Create(&application).Error)

	req := jsonRequest(t, http.MethodPost,
		fmt.Sprintf("/api/admin/applications/%d/status", application.ID),
		map[string]any{"status": "accepted", "comment": "Strong profile."})
	req.Header.Set("Authorization", bearerToken(t, s, admin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decided models.Application
	decodeBody(t, resp, &decided)
	assert.Equal(t, models.ApplicationStatusAccepted, decided.Status)

	// Acceptance promotes the bound candidate
	var promoted models.User
	require.NoError(t, db.First(&promoted, candidate.ID).Error)
	assert.Equal(t, models.RoleAccepted, promoted.Role)
}
