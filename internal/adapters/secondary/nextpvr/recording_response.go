package nextpvr

import (
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

// RecordingResponse maps ManageService responses into recordings, timers and
// series timers. It holds no state between calls and is safe for concurrent use.
type RecordingResponse struct {
	baseURL string
	parser  *Parser
}

// NewRecordingResponse creates a mapper. baseURL is prepended to relative download
// paths; loc is the zone for timestamps without an offset (nil means UTC).
func NewRecordingResponse(baseURL string, loc *time.Location) *RecordingResponse {
	return &RecordingResponse{
		baseURL: baseURL,
		parser:  NewParser(loc),
	}
}

// Recordings decodes stream and returns a lazy sequence of recordings. Only
// entries with a schedule section are included.
func (r *RecordingResponse) Recordings(stream io.Reader) (iter.Seq2[domain.RecordingInfo, error], error) {
	env, err := decodeEnvelope(stream)
	if err != nil {
		return nil, err
	}
	return r.recordings(env), nil
}

// Timers decodes stream and returns a lazy sequence of timers. Only entries with
// a schedule section are included.
func (r *RecordingResponse) Timers(stream io.Reader) (iter.Seq2[domain.TimerInfo, error], error) {
	env, err := decodeEnvelope(stream)
	if err != nil {
		return nil, err
	}
	return r.timers(env), nil
}

// SeriesTimers decodes stream and returns a lazy sequence of series timers. Only
// entries with a recurrence section are included.
func (r *RecordingResponse) SeriesTimers(stream io.Reader) (iter.Seq2[domain.SeriesTimerInfo, error], error) {
	env, err := decodeEnvelope(stream)
	if err != nil {
		return nil, err
	}
	return r.seriesTimers(env), nil
}

func (r *RecordingResponse) recordings(env *envelope) iter.Seq2[domain.RecordingInfo, error] {
	return mapEntries(env, (*eventPayload).hasSchedule, r.recordingInfo)
}

func (r *RecordingResponse) timers(env *envelope) iter.Seq2[domain.TimerInfo, error] {
	return mapEntries(env, (*eventPayload).hasSchedule, r.timerInfo)
}

func (r *RecordingResponse) seriesTimers(env *envelope) iter.Seq2[domain.SeriesTimerInfo, error] {
	return mapEntries(env, (*eventPayload).hasRecurrence, r.seriesTimerInfo)
}

// mapEntries yields one record per matching entry. The first mapping error is
// yielded once and ends the sequence.
func mapEntries[T any](env *envelope, keep func(*eventPayload) bool, mapFn func(*eventPayload) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for i, ev := range env.ManageResults.EPGEvents {
			if !keep(ev.Payload) {
				continue
			}
			info, err := mapFn(ev.Payload)
			if err != nil {
				var zero T
				yield(zero, fmt.Errorf("EPGEvents[%d]: %w", i, err))
				return
			}
			if !yield(info, nil) {
				return
			}
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	out := []T{}
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *RecordingResponse) recordingInfo(p *eventPayload) (domain.RecordingInfo, error) {
	var info domain.RecordingInfo

	if recurr := p.Recurrence; recurr != nil {
		info.ChannelName = channelName(recurr)
	}

	if schd := p.Schedule; schd != nil {
		info.ChannelID = schd.ChannelOid.String()
		info.ID = schd.OID.String()
		info.Path = schd.RecordingFileName
		if schd.DownloadURL != "" {
			u := r.baseURL + schd.DownloadURL
			info.URL = &u
		}
		info.Status = ParseStatus(schd.Status)

		var err error
		if info.StartDate, err = r.parser.Time("schd.StartTime", schd.StartTime); err != nil {
			return info, err
		}
		if info.EndDate, err = r.parser.Time("schd.EndTime", schd.EndTime); err != nil {
			return info, err
		}

		info.IsHD = isHD(schd.Quality)
	}

	if epg := p.Detail; epg != nil {
		info.Audio = ParseAudio(epg.Audio)
		info.ProgramID = epg.OID.String()
		info.OfficialRating = epg.Rating
		info.EpisodeTitle = epg.Subtitle
		info.Name = epg.Title
		info.Overview = epg.Desc
		info.Genres = append([]string(nil), epg.Genres...)
		info.IsRepeat = !epg.FirstRun
		info.CommunityRating = ParseCommunityRating(epg.StarRating)
		// The guide's quality wins over the schedule's.
		info.IsHD = isHD(epg.Quality)
	}

	return info, nil
}

func (r *RecordingResponse) timerInfo(p *eventPayload) (domain.TimerInfo, error) {
	var info domain.TimerInfo

	if recurr := p.Recurrence; recurr != nil {
		info.ChannelName = channelName(recurr)
		seriesID := recurr.OID.String()
		info.SeriesTimerID = &seriesID
	}

	if schd := p.Schedule; schd != nil {
		info.ChannelID = schd.ChannelOid.String()
		info.ID = schd.OID.String()
		info.Status = ParseStatus(schd.Status)

		var err error
		if info.StartDate, err = r.parser.Time("schd.StartTime", schd.StartTime); err != nil {
			return info, err
		}
		if info.EndDate, err = r.parser.Time("schd.EndTime", schd.EndTime); err != nil {
			return info, err
		}
		if info.PrePaddingSeconds, err = r.parser.PaddingSeconds("schd.PrePadding", schd.PrePadding); err != nil {
			return info, err
		}
		if info.PostPaddingSeconds, err = r.parser.PaddingSeconds("schd.PostPadding", schd.PostPadding); err != nil {
			return info, err
		}
	}

	if epg := p.Detail; epg != nil {
		info.ProgramID = epg.OID.String()
		info.Name = epg.Title
		info.Overview = epg.Desc
	}

	return info, nil
}

func (r *RecordingResponse) seriesTimerInfo(p *eventPayload) (domain.SeriesTimerInfo, error) {
	var info domain.SeriesTimerInfo

	if recurr := p.Recurrence; recurr != nil {
		info.ChannelName = channelName(recurr)
		info.ChannelID = channelID(recurr)
		info.ID = recurr.OID.String()

		var err error
		if info.StartDate, err = r.parser.Time("recurr.StartTime", recurr.StartTime); err != nil {
			return info, err
		}
		if info.EndDate, err = r.parser.Time("recurr.EndTime", recurr.EndTime); err != nil {
			return info, err
		}
		if info.PrePaddingSeconds, err = r.parser.PaddingSeconds("recurr.PrePadding", recurr.PrePadding); err != nil {
			return info, err
		}
		if info.PostPaddingSeconds, err = r.parser.PaddingSeconds("recurr.PostPadding", recurr.PostPadding); err != nil {
			return info, err
		}

		info.Name = recurr.RecurringName
		if info.Name == "" {
			info.Name = recurr.EPGTitle
		}
		info.RecordNewOnly = recurr.OnlyNew
		info.RecordAnyChannel = recurr.AllChannels

		if info.Days, err = r.parser.Days("recurr.Day", recurr.Day); err != nil {
			return info, err
		}

		info.Priority = int(recurr.Priority)
	}

	// Series names come from the rule only; the guide title is not used here.
	if epg := p.Detail; epg != nil {
		info.ProgramID = epg.OID.String()
		info.Overview = epg.Desc
	}

	return info, nil
}
