package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	r, err := Parse("2024-01-01", "2024-01-31", 0)
	require.NoError(t, err)
	assert.Equal(t, 31, r.Days())
	assert.Equal(t, "2024-01-01..2024-01-31", r.String())
}

func TestParse_SingleDay(t *testing.T) {
	r, err := Parse("2024-03-10", "2024-03-10", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		maxDays int
		want    error
	}{
		{"missing start", "", "2024-01-01", 0, ErrInvalidRange},
		{"bad start", "2024/01/01", "2024-01-02", 0, ErrInvalidRange},
		{"bad end", "2024-01-01", "tomorrow", 0, ErrInvalidRange},
		{"reversed", "2024-01-05", "2024-01-01", 0, ErrInvalidRange},
		{"too large", "2024-01-01", "2024-12-31", 30, ErrRangeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.start, tt.end, tt.maxDays)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestContains(t *testing.T) {
	r, err := Parse("2024-01-01", "2024-01-02", 0)
	require.NoError(t, err)

	assert.True(t, r.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2023, 12, 31, 23, 59, 0, 0, time.UTC)))
}

func TestBounds(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	r, err := Parse("2024-01-01", "2024-01-02", 0)
	require.NoError(t, err)

	from, to := r.Bounds(loc)
	assert.True(t, from.Equal(time.Date(2023, 12, 31, 17, 0, 0, 0, time.UTC)))
	assert.True(t, to.Equal(time.Date(2024, 1, 2, 17, 0, 0, 0, time.UTC)))
}
