package period

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrBadClock = errors.New("bad clock value")

// Precision — с какой точностью сравнивается время суток.
type Precision int

const (
	Minute Precision = iota
	Second
)

func (p Precision) String() string {
	if p == Second {
		return "second"
	}
	return "minute"
}

func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "minute", "minutes", "min":
		return Minute, nil
	case "second", "seconds", "sec":
		return Second, nil
	}
	return Minute, fmt.Errorf("unknown precision %q", s)
}

// Units converts seconds since midnight into the precision's unit.
func (p Precision) Units(sec int) int {
	if p == Second {
		return sec
	}
	return sec / 60
}

var (
	// 8:00, 08:00, 08:00:00, 08:00:00.000
	bareClockRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?$`)
	// 1970-01-01T08:00:00.000Z, 2025-09-01 08:00:00+03:00
	stampClockRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[T ](\d{2}):(\d{2})(?::(\d{2})(?:\.\d+)?)?\s*(?:Z|[+-]\d{2}(?::?\d{2})?)?$`)
)

// ParseClock returns seconds since midnight for a bare time of day or for the
// time-of-day part of a full timestamp. The zone marker of a timestamp is not
// applied: the stored value is already school-local wall time.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	m := bareClockRe.FindStringSubmatch(s)
	if m == nil {
		m = stampClockRe.FindStringSubmatch(s)
	}
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if h > 23 || mi > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrBadClock, s)
	}
	return h*3600 + mi*60 + sec, nil
}

// ClockOf — время суток момента t в зоне loc, в единицах точности p.
func ClockOf(t time.Time, loc *time.Location, p Precision) int {
	if loc == nil {
		loc = time.UTC
	}
	h, m, s := t.In(loc).Clock()
	return p.Units(h*3600 + m*60 + s)
}

// FormatClock renders seconds since midnight as HH:MM:SS.
func FormatClock(sec int) string {
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec/60%60, sec%60)
}
