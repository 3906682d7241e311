package clock

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNoTimestamp  = errors.New("no timestamp in payload")
	ErrBadTimestamp = errors.New("timestamp out of range")
)

// HTTPSource — GET на эндпоинт, отдающий текущее время сервера
// (например /api/health другого инстанса).
type HTTPSource struct {
	URL    string
	Token  string
	Client *http.Client
}

func NewHTTPSource(url, token string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Token: token, Client: &http.Client{Timeout: timeout}}
}

func (h *HTTPSource) ServerTime(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return time.Time{}, err
	}
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}
	cl := h.Client
	if cl == nil {
		cl = http.DefaultClient
	}
	resp, err := cl.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return time.Time{}, err
	}
	if resp.StatusCode/100 != 2 {
		return time.Time{}, fmt.Errorf("time source: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return ParsePayload(body)
}

// ключи, под которыми встречается время в ответах
var timestampKeys = []string{"timestamp", "serverTime", "server_time", "time", "now", "datetime", "utc"}

// ParsePayload extracts a timestamp from a JSON body: an object carrying one
// of the known keys, a bare string, or a bare unix time (seconds or millis).
func ParsePayload(body []byte) (time.Time, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return time.Time{}, fmt.Errorf("time source: %w", err)
	}
	if obj, ok := v.(map[string]any); ok {
		for _, k := range timestampKeys {
			if raw, ok := obj[k]; ok {
				return parseValue(raw)
			}
		}
		return time.Time{}, ErrNoTimestamp
	}
	return parseValue(v)
}

func parseValue(v any) (time.Time, error) {
	switch x := v.(type) {
	case string:
		return parseStamp(x)
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return epoch(float64(n), n)
		}
		f, err := x.Float64()
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %s", ErrBadTimestamp, x)
		}
		return epoch(f, 0)
	}
	return time.Time{}, ErrNoTimestamp
}

// Допустимый диапазон epoch в секундах: 2000-01-01 .. 2200-01-01.
const (
	minEpochSec = 946684800
	maxEpochSec = 7258118400
)

// epoch: значения больше 1e12 считаются миллисекундами, иначе секундами.
// exact != 0 — точное целое значение, без потерь float64.
func epoch(f float64, exact int64) (time.Time, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadTimestamp, f)
	}
	sec := f
	if f > 1e12 {
		sec = f / 1e3
	}
	if sec < minEpochSec || sec > maxEpochSec {
		return time.Time{}, fmt.Errorf("%w: %v out of range", ErrBadTimestamp, f)
	}
	switch {
	case exact != 0 && f > 1e12:
		return time.UnixMilli(exact), nil
	case exact != 0:
		return time.Unix(exact, 0), nil
	}
	whole := math.Floor(sec)
	return time.Unix(int64(whole), int64((sec-whole)*float64(time.Second))), nil
}

var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC1123,
	time.RFC1123Z,
}

func parseStamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, l := range stampLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrNoTimestamp, s)
}
