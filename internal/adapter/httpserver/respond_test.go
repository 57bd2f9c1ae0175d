package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	listingdomain "github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	listinguc "github.com/mohamed-bella/dresseur-ma/internal/listing/usecase"
)

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"listing not found", listingdomain.ErrListingNotFound, http.StatusNotFound},
		{"invalid listing data", listingdomain.ErrInvalidListingData, http.StatusBadRequest},
		{"approve on non-pending", listingdomain.ErrNotPending, http.StatusBadRequest},
		{"duplicate slug", listingdomain.ErrDuplicateSlug, http.StatusConflict},
		{"wrapped duplicate slug", fmt.Errorf("ListingUsecase.Create: %w", listingdomain.ErrDuplicateSlug), http.StatusConflict},
		{"forbidden", listinguc.ErrForbidden, http.StatusForbidden},
		{"no session", accountdomain.ErrSessionNotFound, http.StatusUnauthorized},
		{"unknown error", errors.New("mongo blew up"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, zap.NewNop(), tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var body envelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRespondError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, zap.NewNop(), errors.New("dial tcp 10.0.0.5:27017: connection refused"))

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal server error", body.Message)
}
