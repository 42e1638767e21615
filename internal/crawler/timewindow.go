package crawler

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidTimeFormat is returned for time bound strings matching none of
// the accepted shapes.
var ErrInvalidTimeFormat = errors.New("invalid time format")

// Accepted date layouts, always interpreted as UTC.
const (
	layoutDate     = "2006-01-02"
	layoutDateTime = "2006-01-02T15:04:05"
)

// ParseEpoch converts a time bound string to epoch seconds. Accepted
// shapes: a bare integer or float (epoch seconds), YYYY-MM-DD (UTC
// midnight) or YYYY-MM-DDTHH:MM:SS (UTC). An empty input means unbounded
// and yields nil.
func ParseEpoch(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		// int64 of a non-finite float is an unspecified value.
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
		}

		v := int64(f)

		return &v, nil
	}

	layout := layoutDate
	if strings.Contains(s, "T") {
		layout = layoutDateTime
	}

	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	v := t.Unix()

	return &v, nil
}

// Window bounds a scan to [after, before] in epoch seconds; a nil bound is
// unbounded. After > Before yields an empty scan, not an error.
type Window struct {
	After  *int64
	Before *int64
}

// NewWindow parses both bound strings into a Window.
func NewWindow(after, before string) (Window, error) {
	a, err := ParseEpoch(after)
	if err != nil {
		return Window{}, err
	}

	b, err := ParseEpoch(before)
	if err != nil {
		return Window{}, err
	}

	return Window{After: a, Before: b}, nil
}

// TooRecent reports whether a timestamp lies above the upper bound.
func (w Window) TooRecent(epoch int64) bool {
	return w.Before != nil && epoch > *w.Before
}

// TooOld reports whether a timestamp lies below the lower bound.
func (w Window) TooOld(epoch int64) bool {
	return w.After != nil && epoch < *w.After
}
