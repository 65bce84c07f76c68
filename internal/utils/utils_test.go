package utils

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "₦0.00", FormatMoney(0, "NGN"))
	assert.Equal(t, "₦1,250,000.50", FormatMoney(1250000.5, "NGN"))
	assert.Equal(t, "-₦999.99", FormatMoney(-999.99, "ngn"))
	assert.Equal(t, "$12.00", FormatMoney(12, "usd"))
	assert.Equal(t, "KES 1,000.00", FormatMoney(1000, "KES"))
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/bookings/1", SafeRedirect("/bookings/1", "/"))
	assert.Equal(t, "/", SafeRedirect("https://evil.example", "/"))
	assert.Equal(t, "/", SafeRedirect("//evil.example", "/"))
	assert.Equal(t, "/home", SafeRedirect("", "/home"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "jo***@mail.com", MaskEmail("john@mail.com"))
	assert.Equal(t, "a***@x.io", MaskEmail("a@x.io"))
	assert.Equal(t, "nope", MaskEmail("nope"))
}

func TestParseDateClockAndDayKey(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	ts, err := ParseDateClock("2025-03-09", "23:30", loc)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", FormatDate(ts))

	day := DayKey(ts.UTC(), loc)
	assert.Equal(t, 0, day.Hour())
	assert.Equal(t, 9, day.Day())

	_, err = ParseDateClock("2025-03-09", "25:00", loc)
	assert.Error(t, err)
}

func TestLogEventWritesFields(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogger("debug", "json", &buf)
	LogEvent("req-1", "auth", "login", "ok")
	LogError("req-2", "payment", "initiate", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, `"module":"AUTH"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"error":"boom"`)
}
