package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"room-booking/internal/dto/response"
	"room-booking/pkg/apperrors"
	"room-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation maps to 400", err: apperrors.Validation("bad input"), wantStatus: http.StatusBadRequest},
		{name: "conflict maps to 409", err: apperrors.Conflict("slot taken", nil), wantStatus: http.StatusConflict},
		{name: "not found maps to 404", err: apperrors.NotFound("no such booking"), wantStatus: http.StatusNotFound},
		{name: "permission maps to 403", err: apperrors.Permission("not yours"), wantStatus: http.StatusForbidden},
		{name: "authentication maps to 401", err: apperrors.Authentication("bad credentials"), wantStatus: http.StatusUnauthorized},
		{name: "internal maps to 500", err: apperrors.Internal("db down", errors.New("broken pipe")), wantStatus: http.StatusInternalServerError},
		{name: "plain error maps to 500", err: errors.New("unexpected"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, zap.NewNop(), tc.err, "test operation")

			assert.Equal(t, tc.wantStatus, rec.Code)

			var body utils.Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Status)
		})
	}

	t.Run("internal errors never leak the cause", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handleServiceError(rec, zap.NewNop(), apperrors.Internal("db down", errors.New("password=hunter2")), "test operation")

		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.NotContains(t, rec.Body.String(), "db down")
	})

	t.Run("conflict response carries the conflicting bookings", func(t *testing.T) {
		conflicts := []response.ConflictingBooking{{
			ID:        "b-1",
			StartTime: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
			UserName:  "User One",
		}}

		rec := httptest.NewRecorder()
		handleServiceError(rec, zap.NewNop(), apperrors.Conflict("slot taken", conflicts), "test operation")

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "b-1")
		assert.Contains(t, rec.Body.String(), "User One")
	})
}
