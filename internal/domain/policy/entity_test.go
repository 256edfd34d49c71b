package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	d, err := ParseTimeOfDay("09:05")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 9, Minute: 5}, d)
	assert.Equal(t, "09:05", d.String())

	_, err = ParseTimeOfDay("9am")
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
}

func TestTimeOfDay_On(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	// 2024-01-01 23:30 UTC is already 2024-01-02 in UTC+7
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)

	got := TimeOfDay{Hour: 9}.On(now, jakarta)
	assert.Equal(t, time.Date(2024, 1, 2, 9, 0, 0, 0, jakarta), got)
}

func TestNew(t *testing.T) {
	p, err := New("08:30", 450, "Asia/Jakarta")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 8, Minute: 30}, p.ExpectedClockIn)
	assert.Equal(t, 450, p.StandardDailyMinutes)
	assert.Equal(t, "Asia/Jakarta", p.Location.String())

	_, err = New("08:30", 0, "UTC")
	assert.ErrorIs(t, err, ErrInvalidDailyMinutes)

	_, err = New("08:30", 480, "Mars/Olympus")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}

func TestPolicy_WithOverride(t *testing.T) {
	base, err := New("09:00", 480, "UTC")
	require.NoError(t, err)

	minutes := 420
	got, err := base.WithOverride(Override{StandardDailyMinutes: &minutes})
	require.NoError(t, err)
	assert.Equal(t, 420, got.StandardDailyMinutes)
	assert.Equal(t, base.ExpectedClockIn, got.ExpectedClockIn)

	bad := "25:00"
	_, err = base.WithOverride(Override{ExpectedClockIn: &bad})
	assert.ErrorIs(t, err, ErrInvalidTimeOfDay)
}
