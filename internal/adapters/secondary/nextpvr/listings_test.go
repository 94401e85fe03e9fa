package nextpvr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

func TestParseAudio(t *testing.T) {
	tests := []struct {
		value string
		want  *domain.ProgramAudio
	}{
		{"Stereo", audioPtr(domain.AudioStereo)},
		{"STEREO", audioPtr(domain.AudioStereo)},
		{"mono", audioPtr(domain.AudioMono)},
		{"Dolby", audioPtr(domain.AudioDolby)},
		{"Dolby Digital", audioPtr(domain.AudioDolbyDigital)},
		{"THX", audioPtr(domain.AudioThx)},
		{"", nil},
		{"surround-ish", nil},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAudio(tt.value))
		})
	}
}

func TestParseCommunityRating(t *testing.T) {
	tests := []struct {
		value string
		want  float64
	}{
		{"*", 1},
		{"**", 2},
		{"***+", 3.5},
		{"****", 4},
		{"+", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got := ParseCommunityRating(tt.value)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}

	assert.Nil(t, ParseCommunityRating(""))
	assert.Nil(t, ParseCommunityRating("  "))
}
