package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"secretguest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHotelAdminCRUD(t *testing.T) {
	app, s, db := setupServerTest(t)
	admin := createTestUser(t, db, models.User{Email: "admin@example.com", Role: models.RoleAdmin}, "Password123!")
	auth := bearerToken(t, s, admin)

	req := jsonRequest(t, http.MethodPost, "/api/admin/hotels/", map[string]any{
		"name":     "Harbor View",
		"city":     "Porto",
		"address":  "Av. dos Aliados 20",
		"capacity": 4,
		"rating":   4,
	})
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var hotel models.Hotel
	decodeBody(t, resp, &hotel)
	require.NotZero(t, hotel.ID)

	// Out-of-scale rating is rejected
	req = jsonRequest(t, http.MethodPost, "/api/admin/hotels/", map[string]any{
		"name":    "Impossible",
		"city":    "Porto",
		"address": "Nowhere 1",
		"rating":  9,
	})
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Update
	req = jsonRequest(t, http.MethodPut, fmt.Sprintf("/api/admin/hotels/%d", hotel.ID), map[string]any{
		"rating": 5,
	})
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &hotel)
	assert.Equal(t, 5, hotel.Rating)

	// Public detail
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/hotels/%d", hotel.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Delete
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/admin/hotels/%d", hotel.ID), nil)
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHotelWindowManagement(t *testing.T) {
	app, s, db := setupServerTest(t)
	admin := createTestUser(t, db, models.User{Email: "admin@example.com", Role: models.RoleAdmin}, "Password123!")
	auth := bearerToken(t, s, admin)

	hotel := models.Hotel{Name: "Window Test", City: "Lisbon", Address: "Rua 1", Rating: 4, IsActive: true}
	require.NoError(t, db.Create(&hotel).Error)

	checkIn := time.Now().Add(7 * 24 * time.Hour).Truncate(time.Second)
	base := fmt.Sprintf("/api/admin/hotels/%d/windows", hotel.ID)

	req := jsonRequest(t, http.MethodPost, base, map[string]any{
		"check_in_date":  checkIn,
		"check_out_date": checkIn.Add(48 * time.Hour),
		"slots_total":    5,
	})
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var window models.ProgramHotel
	decodeBody(t, resp, &window)
	assert.Equal(t, 5, window.SlotsAvailable)

	// Checkout before check-in is rejected
	req = jsonRequest(t, http.MethodPost, base, map[string]any{
		"check_in_date":  checkIn,
		"check_out_date": checkIn.Add(-24 * time.Hour),
		"slots_total":    5,
	})
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Listing returns the created window
	req = httptest.NewRequest(http.MethodGet, base, nil)
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listing struct {
		Windows []models.ProgramHotel `json:"windows"`
	}
	decodeBody(t, resp, &listing)
	assert.Len(t, listing.Windows, 1)
}

func TestPromoCodeAdmin(t *testing.T) {
	app, s, db := setupServerTest(t)
	admin := createTestUser(t, db, models.User{Email: "admin@example.com", Role: models.RoleAdmin}, "Password123!")
	auth := bearerToken(t, s, admin)

	req := jsonRequest(t, http.MethodPost, "/api/admin/promo-codes/", map[string]any{
		"code":     "spring20",
		"discount": 0.2,
	})
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var promo models.PromoCode
	decodeBody(t, resp, &promo)
	assert.Equal(t, "SPRING20", promo.Code)

	// Discounts above 100% are rejected
	req = jsonRequest(t, http.MethodPost, "/api/admin/promo-codes/", map[string]any{
		"code":     "BROKEN",
		"discount": 1.5,
	})
	req.Header.Set("Authorization", auth)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}
