package nextpvr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"

	"github.com/githubixx/nextpvr-go/internal/domain"
)

// flexInt accepts ids that NextPVR sends either as 123 or "123".
type flexInt int

func (v *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) || bytes.Equal(b, []byte(`""`)) {
		*v = 0
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("id: invalid string %q", s)
		}
		*v = flexInt(i)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("id: invalid json value: %s", string(b))
	}
	i, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("id: not an integer: %s", n.String())
	}
	*v = flexInt(i)
	return nil
}

func (v flexInt) String() string {
	return strconv.Itoa(int(v))
}

// envelope is the body returned by /public/ManageService/Get/SortedFilteredList.
type envelope struct {
	ManageResults *manageResults `json:"ManageResults"`
}

type manageResults struct {
	EPGEvents []epgEventEntry `json:"EPGEvents"`
}

type epgEventEntry struct {
	Payload *eventPayload `json:"epgEventJSONObject"`
}

// eventPayload carries up to four optional sections. Which of them are set
// decides whether the entry is a recording/timer, a series rule, or neither.
type eventPayload struct {
	Recurrence *recurrenceRule `json:"recurr"`
	Return     *returnStatus   `json:"rtn"`
	Detail     *epgEventDetail `json:"epgEvent"`
	Schedule   *scheduleItem   `json:"schd"`
}

func (p *eventPayload) hasSchedule() bool {
	return p != nil && p.Schedule != nil
}

func (p *eventPayload) hasRecurrence() bool {
	return p != nil && p.Recurrence != nil
}

type scheduleItem struct {
	OID               flexInt `json:"OID"`
	ChannelOid        flexInt `json:"ChannelOid"`
	Priority          flexInt `json:"Priority"`
	Name              string  `json:"Name"`
	Quality           string  `json:"Quality"`
	Type              string  `json:"Type"`
	Day               string  `json:"Day"`
	StartTime         string  `json:"StartTime"`
	EndTime           string  `json:"EndTime"`
	Status            string  `json:"Status"`
	FailureReason     string  `json:"FailureReason"`
	PrePadding        string  `json:"PrePadding"`
	PostPadding       string  `json:"PostPadding"`
	MaxRecordings     string  `json:"MaxRecordings"`
	DownloadURL       string  `json:"DownloadURL"`
	RecordingFileName string  `json:"RecordingFileName"`
	PlaybackPosition  flexInt `json:"PlaybackPosition"`
	PlaybackDuration  flexInt `json:"PlaybackDuration"`
	LastWatched       string  `json:"LastWatched"`
	OnlyNew           bool    `json:"OnlyNew"`
	FanArt            string  `json:"FanArt"`
}

type recurrenceRule struct {
	Type                 string          `json:"Type"`
	OID                  flexInt         `json:"OID"`
	RecurringName        string          `json:"RecurringName"`
	PeriodDescription    string          `json:"PeriodDescription"`
	EPGTitle             string          `json:"EPGTitle"`
	ChannelOid           flexInt         `json:"ChannelOid"`
	StartTime            string          `json:"StartTime"`
	EndTime              string          `json:"EndTime"`
	RecordingDirectoryID json.RawMessage `json:"RecordingDirectoryID"`
	Priority             flexInt         `json:"Priority"`
	Quality              string          `json:"Quality"`
	PrePadding           string          `json:"PrePadding"`
	PostPadding          string          `json:"PostPadding"`
	MaxRecordings        string          `json:"MaxRecordings"`
	AllChannels          bool            `json:"allChannels"`
	OnlyNew              bool            `json:"OnlyNew"`
	Day                  string          `json:"Day"`
	AdvancedRules        json.RawMessage `json:"AdvancedRules"`
	RulesXMLDoc          *rulesXMLDoc    `json:"RulesXmlDoc"`
}

type rulesXMLDoc struct {
	Rules *ruleFields `json:"Rules"`
}

type ruleFields struct {
	ChannelOID  string `json:"ChannelOID"`
	ChannelName string `json:"ChannelName"`
	StartTime   string `json:"StartTime"`
	EndTime     string `json:"EndTime"`
	PrePadding  string `json:"PrePadding"`
	PostPadding string `json:"PostPadding"`
	Quality     string `json:"Quality"`
	Keep        string `json:"Keep"`
	Days        string `json:"Days"`
	EPGTitle    string `json:"EPGTitle"`
}

type returnStatus struct {
	Error   bool   `json:"Error"`
	Message string `json:"Message"`
}

type epgEventDetail struct {
	OID                 flexInt  `json:"OID"`
	UniqueID            string   `json:"UniqueId"`
	ChannelOid          flexInt  `json:"ChannelOid"`
	StartTime           string   `json:"StartTime"`
	EndTime             string   `json:"EndTime"`
	Title               string   `json:"Title"`
	Subtitle            string   `json:"Subtitle"`
	Desc                string   `json:"Desc"`
	Rating              string   `json:"Rating"`
	Quality             string   `json:"Quality"`
	StarRating          string   `json:"StarRating"`
	Aspect              string   `json:"Aspect"`
	Audio               string   `json:"Audio"`
	OriginalAirdate     string   `json:"OriginalAirdate"`
	FanArt              string   `json:"FanArt"`
	Genres              []string `json:"Genres"`
	FirstRun            bool     `json:"FirstRun"`
	HasSchedule         bool     `json:"HasSchedule"`
	ScheduleIsRecurring bool     `json:"ScheduleIsRecurring"`
}

// decodeEnvelope reads one JSON document from stream. Every optional section may be
// null or absent; only the ManageResults/EPGEvents wrapper is required.
func decodeEnvelope(stream io.Reader) (*envelope, error) {
	if isNilReader(stream) {
		return nil, fmt.Errorf("%w: stream is nil", domain.ErrInvalidArgument)
	}

	var env envelope
	dec := json.NewDecoder(stream)
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON document", domain.ErrMalformedPayload)
	}
	if env.ManageResults == nil {
		return nil, fmt.Errorf("%w: missing ManageResults", domain.ErrMalformedPayload)
	}
	if env.ManageResults.EPGEvents == nil {
		return nil, fmt.Errorf("%w: missing ManageResults.EPGEvents", domain.ErrMalformedPayload)
	}
	return &env, nil
}

// isNilReader also catches typed nils such as a nil *bytes.Reader.
func isNilReader(stream io.Reader) bool {
	if stream == nil {
		return true
	}
	v := reflect.ValueOf(stream)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// returnErrors lists the upstream error messages carried in rtn sections.
func (e *envelope) returnErrors() []string {
	var msgs []string
	for _, ev := range e.ManageResults.EPGEvents {
		if ev.Payload == nil || ev.Payload.Return == nil || !ev.Payload.Return.Error {
			continue
		}
		msgs = append(msgs, ev.Payload.Return.Message)
	}
	return msgs
}
