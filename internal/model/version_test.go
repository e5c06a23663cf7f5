package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOsuVersion(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    OsuVersion
		wantErr bool
	}{
		{
			name: "stable",
			in:   "b20220203",
			want: OsuVersion{Date: time.Date(2022, 2, 3, 0, 0, 0, 0, time.UTC), Stream: StreamStable},
		},
		{
			name: "revision and stream",
			in:   "b20220203.2cuttingedge",
			want: OsuVersion{Date: time.Date(2022, 2, 3, 0, 0, 0, 0, time.UTC), Revision: 2, Stream: StreamCuttingEdge},
		},
		{
			name: "tourney",
			in:   "b20211228tourney",
			want: OsuVersion{Date: time.Date(2021, 12, 28, 0, 0, 0, 0, time.UTC), Stream: StreamTourney},
		},
		{name: "missing prefix", in: "20220203", wantErr: true},
		{name: "short date", in: "b2022023", wantErr: true},
		{name: "garbage", in: "hello world", wantErr: true},
		{name: "unknown stream", in: "b20220203nightly", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOsuVersion(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseAdapters(t *testing.T) {
	adapters, wine, err := ParseAdapters("aa:bb:cc.dd:ee:ff.")
	require.NoError(t, err)
	assert.False(t, wine)
	assert.Equal(t, []string{"aa:bb:cc", "dd:ee:ff"}, adapters)

	adapters, wine, err = ParseAdapters(WineAdapters)
	require.NoError(t, err)
	assert.True(t, wine)
	assert.Empty(t, adapters)

	_, _, err = ParseAdapters(".")
	require.Error(t, err)
}
