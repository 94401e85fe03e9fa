package nextpvr

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// timeLayouts are tried in order. NextPVR emits ISO-8601; older builds fall back
// to the en-US short date pattern.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2006-01-02",
}

var errUnknownLayout = errors.New("no known date/time layout matches")

// Parser converts NextPVR's string-typed fields with a fixed convention that does
// not depend on the process locale.
type Parser struct {
	loc *time.Location
}

// NewParser returns a Parser that interprets timestamps without a zone in loc.
// A nil loc means UTC.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	return &Parser{loc: loc}
}

// Time parses a date-time string.
func (p *Parser) Time(field, value string) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, &FieldError{Field: field, Value: value, Err: errors.New("empty timestamp")}
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &FieldError{Field: field, Value: value, Err: errUnknownLayout}
}

// PaddingSeconds parses a padding given in whole minutes and returns seconds.
func (p *Parser) PaddingSeconds(field, value string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &FieldError{Field: field, Value: value, Err: err}
	}
	return minutes * 60, nil
}

// Days parses a comma-joined list of weekday names such as "Monday, Tuesday".
// Order is preserved. An empty string yields an empty list.
func (p *Parser) Days(field, value string) ([]time.Weekday, error) {
	days := []time.Weekday{}
	if strings.TrimSpace(value) == "" {
		return days, nil
	}

	fold := cases.Fold()
	for _, token := range strings.Split(value, ",") {
		day, ok := weekdaysByName[fold.String(strings.TrimSpace(token))]
		if !ok {
			return nil, &FieldError{Field: field, Value: value, Err: errors.New("unknown day " + strconv.Quote(strings.TrimSpace(token)))}
		}
		days = append(days, day)
	}
	return days, nil
}

var weekdaysByName = func() map[string]time.Weekday {
	fold := cases.Fold()
	m := make(map[string]time.Weekday, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		m[fold.String(d.String())] = d
	}
	return m
}()

// equalFold compares two strings case-insensitively using Unicode case folding,
// independent of any locale.
func equalFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(a) == fold.String(b)
}
