package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RecordingStatus is the normalized state of a recording or timer
type RecordingStatus int

const (
	StatusScheduled RecordingStatus = iota
	StatusInProgress
	StatusCompleted
	StatusCancelled
	StatusConflictedOk
	StatusConflictedNotOk
	StatusError
)

var recordingStatusNames = map[RecordingStatus]string{
	StatusScheduled:       "scheduled",
	StatusInProgress:      "in_progress",
	StatusCompleted:       "completed",
	StatusCancelled:       "cancelled",
	StatusConflictedOk:    "conflicted_ok",
	StatusConflictedNotOk: "conflicted_not_ok",
	StatusError:           "error",
}

func (s RecordingStatus) String() string {
	if name, ok := recordingStatusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("RecordingStatus(%d)", int(s))
}

// MarshalText renders the status by name in JSON and YAML output.
func (s RecordingStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *RecordingStatus) UnmarshalText(b []byte) error {
	for status, name := range recordingStatusNames {
		if name == string(b) {
			*s = status
			return nil
		}
	}
	return fmt.Errorf("%w: unknown recording status %q", ErrInvalidInput, string(b))
}

// ProgramAudio describes the audio format announced in the guide data
type ProgramAudio int

const (
	AudioMono ProgramAudio = iota
	AudioStereo
	AudioDolby
	AudioDolbyDigital
	AudioThx
	AudioAtmos
)

var programAudioNames = map[ProgramAudio]string{
	AudioMono:         "mono",
	AudioStereo:       "stereo",
	AudioDolby:        "dolby",
	AudioDolbyDigital: "dolby_digital",
	AudioThx:          "thx",
	AudioAtmos:        "atmos",
}

func (a ProgramAudio) String() string {
	if name, ok := programAudioNames[a]; ok {
		return name
	}
	return fmt.Sprintf("ProgramAudio(%d)", int(a))
}

// MarshalText renders the audio format by name.
func (a ProgramAudio) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Weekdays is the day list of a series timer. It is written to JSON as
// lowercase day names, e.g. ["monday","friday"].
type Weekdays []time.Weekday

func (w Weekdays) MarshalJSON() ([]byte, error) {
	names := make([]string, 0, len(w))
	for _, d := range w {
		if d < time.Sunday || d > time.Saturday {
			return nil, fmt.Errorf("%w: weekday %d out of range", ErrInvalidInput, int(d))
		}
		names = append(names, strings.ToLower(d.String()))
	}
	return json.Marshal(names)
}

// UnmarshalJSON accepts day names in any case.
func (w *Weekdays) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	days := make(Weekdays, 0, len(names))
	for _, name := range names {
		d, ok := weekdayByName(name)
		if !ok {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidInput, name)
		}
		days = append(days, d)
	}
	*w = days
	return nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), name) {
			return d, true
		}
	}
	return 0, false
}

// RecordingInfo represents a completed or in-progress recording
type RecordingInfo struct {
	ID              string          `json:"id"`
	ChannelID       string          `json:"channel_id"`
	ChannelName     *string         `json:"channel_name,omitempty"`
	Path            string          `json:"path"`
	URL             *string         `json:"url,omitempty"`
	Status          RecordingStatus `json:"status"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	IsHD            bool            `json:"is_hd"`
	ProgramID       string          `json:"program_id,omitempty"`
	OfficialRating  string          `json:"official_rating,omitempty"`
	EpisodeTitle    string          `json:"episode_title,omitempty"`
	Name            string          `json:"name"`
	Overview        string          `json:"overview,omitempty"`
	Genres          []string        `json:"genres,omitempty"`
	IsRepeat        bool            `json:"is_repeat"`
	CommunityRating *float64        `json:"community_rating,omitempty"`
	Audio           *ProgramAudio   `json:"audio,omitempty"`
}

// TimerInfo represents a scheduled single-occurrence recording
type TimerInfo struct {
	ID                 string          `json:"id"`
	SeriesTimerID      *string         `json:"series_timer_id,omitempty"`
	ChannelID          string          `json:"channel_id"`
	ChannelName        *string         `json:"channel_name,omitempty"`
	Status             RecordingStatus `json:"status"`
	StartDate          time.Time       `json:"start_date"`
	EndDate            time.Time       `json:"end_date"`
	PrePaddingSeconds  int             `json:"pre_padding_seconds"`
	PostPaddingSeconds int             `json:"post_padding_seconds"`
	ProgramID          string          `json:"program_id,omitempty"`
	Name               string          `json:"name"`
	Overview           string          `json:"overview,omitempty"`
}

// SeriesTimerInfo represents a standing recurring recording rule.
// A nil ChannelID or ChannelName means the rule matches any channel.
type SeriesTimerInfo struct {
	ID                 string    `json:"id"`
	ChannelID          *string   `json:"channel_id,omitempty"`
	ChannelName        *string   `json:"channel_name,omitempty"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	PrePaddingSeconds  int       `json:"pre_padding_seconds"`
	PostPaddingSeconds int       `json:"post_padding_seconds"`
	Name               string    `json:"name"`
	RecordNewOnly      bool      `json:"record_new_only"`
	RecordAnyChannel   bool      `json:"record_any_channel"`
	Days               Weekdays  `json:"days"`
	Priority           int       `json:"priority"`
	ProgramID          string    `json:"program_id,omitempty"`
	Overview           string    `json:"overview,omitempty"`
}

// Summary aggregates the three record families for an overview page
type Summary struct {
	Recordings   int        `json:"recordings"`
	Timers       int        `json:"timers"`
	SeriesTimers int        `json:"series_timers"`
	Conflicts    int        `json:"conflicts"`
	NextTimer    *TimerInfo `json:"next_timer,omitempty"`
}

// TimerConflict pairs two timers on the same channel whose windows overlap.
type TimerConflict struct {
	First  TimerInfo `json:"first"`
	Second TimerInfo `json:"second"`
}
