package httpapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2022, 5, 18, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2022-05-18T12:00:00Z", want, true},
		{"2022-05-18T12:00:00", want, true},
		{"2022-05-18T12:00", want, true},
		{"2022-05-18 12:00:00", want, true},
		{"2022-05-18T14:00:00+02:00", want, true},
		{"2022-05-18T14:00:00 02:00", want, true},
		{"2022-05-18", time.Date(2022, 5, 18, 0, 0, 0, 0, time.UTC), true},
		{"2022-12-31T23:59:59.999999", time.Date(2022, 12, 31, 23, 59, 59, 999999000, time.UTC), true},
		{"", time.Time{}, false},
		{"yesterday", time.Time{}, false},
		{"2022-13-01", time.Time{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s", got)
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseIDList(t *testing.T) {
	assert.Equal(t, []string{}, parseIDList(""))
	assert.Equal(t, []string{"1", "2"}, parseIDList("1, 2,,"))
}
