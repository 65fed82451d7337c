// Package temporal converts between spreadsheet serial dates and time values.
//
// Two interpretations are supported. A UTC-tagged value keeps the UTC fields of
// an instant verbatim, so a naive timestamp written on one machine reads back
// with the same fields on any other. A Local-tagged value stores the wall-clock
// fields of an instant in a given location, packed into UTC fields, and reading
// it back yields a time whose fields in that location match the written time.
package temporal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// EpochOffsetMillis is the Unix-millisecond value of serial day 0
// (1899-12-30T00:00:00Z).
const EpochOffsetMillis int64 = -2209161600000

// MillisPerDay is the number of milliseconds in one serial day.
const MillisPerDay = 86400000

// DefaultFormat is the display format attached to temporal cells when none is given.
const DefaultFormat = "yyyy-mm-dd hh:mm:ss"

// Tag selects how a temporal value is interpreted.
type Tag string

const (
	// None leaves values untouched.
	None Tag = ""
	// UTC keeps UTC fields verbatim.
	UTC Tag = "utc"
	// Local packs wall-clock fields of a location into UTC fields.
	Local Tag = "date"
)

// ErrUnparsable indicates a string that matches none of the accepted layouts.
var ErrUnparsable = errors.New("unparsable time value")

// layouts accepted by Parse, tried in order.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// FromSerial converts a serial date to the instant it denotes in UTC.
// Sub-millisecond noise from floating point is rounded away.
func FromSerial(days float64) time.Time {
	ms := int64(math.Round(days * MillisPerDay))
	return time.UnixMilli(ms + EpochOffsetMillis).UTC()
}

// ToSerial converts the UTC fields of t to a serial date.
func ToSerial(t time.Time) float64 {
	ms := t.UTC().UnixNano()/int64(time.Millisecond) - EpochOffsetMillis
	return float64(ms) / MillisPerDay
}

// Codec applies the tag conventions relative to a location.
// The zero value uses time.Local.
type Codec struct {
	// Location is the zone used for Local tags and for zone-less strings.
	Location *time.Location
}

// New returns a Codec bound to loc.
func New(loc *time.Location) Codec {
	return Codec{Location: loc}
}

func (c Codec) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Parse reads s using the accepted layouts. Strings without a zone are taken
// to be in the codec's location.
func (c Codec) Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, c.loc()); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsable, s)
}

// Encode normalizes t for storage: the result's UTC fields are the fields the
// document should display.
func (c Codec) Encode(t time.Time, tag Tag) time.Time {
	if tag == Local {
		return packUTC(t.In(c.loc()))
	}
	return t.UTC()
}

// EncodeValue accepts a time.Time or a string and encodes it under tag.
// Strings without a zone are read in UTC for the UTC tag and in the codec's
// location otherwise.
func (c Codec) EncodeValue(v any, tag Tag) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return c.Encode(x, tag), nil
	case *time.Time:
		if x == nil {
			return time.Time{}, fmt.Errorf("%w: nil time", ErrUnparsable)
		}
		return c.Encode(*x, tag), nil
	case string:
		// Zone-less text tagged UTC already holds the UTC fields.
		p := c
		if tag == UTC {
			p = New(time.UTC)
		}
		t, err := p.Parse(x)
		if err != nil {
			return time.Time{}, err
		}
		return c.Encode(t, tag), nil
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnparsable, v)
	}
}

// Decode reconstructs a time from a stored serial number, time or string.
// For UTC the result's UTC fields equal the stored fields; for Local the
// result's fields in the codec's location equal the stored fields. Other
// inputs and the None tag return v unchanged.
func (c Codec) Decode(v any, tag Tag) any {
	if tag == None || v == nil {
		return v
	}
	var stored time.Time
	switch x := v.(type) {
	case float64:
		stored = FromSerial(x)
	case int64:
		stored = FromSerial(float64(x))
	case int:
		stored = FromSerial(float64(x))
	case time.Time:
		stored = x.UTC()
	case string:
		t, err := c.Parse(x)
		if err != nil {
			return v
		}
		// Strings carry wall-clock text; pack it like a Local encode.
		stored = packUTC(t.In(c.loc()))
	default:
		return v
	}
	if tag == Local {
		return unpackUTC(stored, c.loc())
	}
	return stored
}

// packUTC returns the instant whose UTC fields equal the fields of t.
func packUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// unpackUTC returns the instant whose fields in loc equal the UTC fields of t.
func unpackUTC(t time.Time, loc *time.Location) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
