package http

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkazarov/fleet-reports/internal/service"
)

func TestHandleErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &Handler{log: zerolog.Nop()}

	cases := []struct {
		err    error
		status int
		body   string
	}{
		{fmt.Errorf("%w: bad start_date", service.ErrInvalidInput), http.StatusBadRequest, `{"error":"invalid input: bad start_date"}`},
		{service.ErrTripOverlap, http.StatusBadRequest, `{"error":"trip overlaps an existing trip"}`},
		{fmt.Errorf("%w: vehicle 42", service.ErrNotFound), http.StatusNotFound, `{"error":"not found: vehicle 42"}`},
		{fmt.Errorf("connection refused"), http.StatusInternalServerError, `{"error":"internal error"}`},
	}
	for _, tc := range cases {
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		h.handleError(c, tc.err)
		assert.Equal(t, tc.status, recorder.Code, tc.err.Error())
		assert.JSONEq(t, tc.body, recorder.Body.String(), tc.err.Error())
	}
}

func TestParseDateTimeLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-06-01T08:00:00Z":      time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		"2024-06-01T08:00:00":       time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		"2024-06-01T08:00":          time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		"2024-06-01":                time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		" 2024-06-01T08:00:00Z ":    time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		"2024-06-01T11:00:00+03:00": time.Date(2024, 6, 1, 11, 0, 0, 0, time.FixedZone("", 3*3600)),
	}
	for raw, want := range cases {
		got, err := parseDateTime(raw)
		require.NoError(t, err, raw)
		assert.True(t, got.Equal(want), raw)
	}

	for _, raw := range []string{"", "yesterday", "01.06.2024"} {
		_, err := parseDateTime(raw)
		assert.Error(t, err, raw)
	}
}

func TestOptionalID(t *testing.T) {
	id, err := optionalID("")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = optionalID(" 42 ")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, int64(42), *id)

	_, err = optionalID("abc")
	assert.Error(t, err)
}
