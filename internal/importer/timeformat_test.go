package importer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrptimeToLayout(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		want    string
		wantErr bool
	}{
		{
			name:   "default import format",
			format: "%d.%m.%Y %H:%M",
			want:   "02.01.2006 15:04",
		},
		{
			name:   "iso style with seconds",
			format: "%Y-%m-%d %H:%M:%S",
			want:   "2006-01-02 15:04:05",
		},
		{
			name:   "twelve hour clock",
			format: "%d.%m.%y %I:%M %p",
			want:   "02.01.06 03:04 PM",
		},
		{
			name:   "named month and zone offset",
			format: "%d %B %Y %H:%M %z",
			want:   "02 January 2006 15:04 -0700",
		},
		{
			name:   "escaped percent",
			format: "%d%%%m",
			want:   "02%01",
		},
		{
			name:    "unsupported directive",
			format:  "%Q",
			wantErr: true,
		},
		{
			name:    "trailing percent",
			format:  "%d.%m.%Y %",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := strptimeToLayout(tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrptimeToLayout_RoundTrip(t *testing.T) {
	layout, err := strptimeToLayout("%d.%m.%Y %H:%M")
	require.NoError(t, err)

	ts, err := time.Parse(layout, "31.12.2023 23:45")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, time.December, 31, 23, 45, 0, 0, time.UTC), ts)
}
