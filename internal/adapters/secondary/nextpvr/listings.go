package nextpvr

import (
	"strings"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

var audioByName = []struct {
	name  string
	audio domain.ProgramAudio
}{
	{"stereo", domain.AudioStereo},
	{"mono", domain.AudioMono},
	{"dolby", domain.AudioDolby},
	{"dolby digital", domain.AudioDolbyDigital},
	{"thx", domain.AudioThx},
	{"atmos", domain.AudioAtmos},
}

// ParseAudio maps the guide's audio mode string. Unknown or empty values yield nil.
func ParseAudio(value string) *domain.ProgramAudio {
	v := strings.TrimSpace(value)
	for _, a := range audioByName {
		if equalFold(v, a.name) {
			audio := a.audio
			return &audio
		}
	}
	return nil
}

// ParseCommunityRating converts a star rating such as "***+" into a number: one
// point per star and half a point for a trailing plus. Empty input yields nil.
func ParseCommunityRating(value string) *float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil
	}

	hasPlus := strings.Contains(v, "+")
	rating := float64(len([]rune(strings.ReplaceAll(v, "+", ""))))
	if hasPlus {
		rating += 0.5
	}
	return &rating
}
