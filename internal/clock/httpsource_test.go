package clock

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestParsePayload(t *testing.T) {
	want := time.Date(2025, 10, 13, 5, 20, 0, 0, time.UTC)
	cases := []string{
		`{"status":"OK","message":"Smart School API is running","timestamp":"2025-10-13T05:20:00.000Z"}`,
		`{"serverTime":"2025-10-13T08:20:00+03:00"}`,
		`"2025-10-13T05:20:00Z"`,
		`1760332800`,
		`{"now":1760332800000}`,
	}
	for _, c := range cases {
		got, err := ParsePayload([]byte(c))
		if err != nil {
			t.Fatalf("%s: %v", c, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s: got %v want %v", c, got.UTC(), want)
		}
	}
}

func TestParsePayload_Malformed(t *testing.T) {
	for _, c := range []string{
		`{"status":"OK"}`, `"yesterday"`, `not json`, `[1,2]`,
		`{"timestamp":1e30}`, `{"timestamp":-5}`, `{"timestamp":12345.5}`, `{"timestamp":1e400}`,
	} {
		if _, err := ParsePayload([]byte(c)); err == nil {
			t.Fatalf("%s: expected error", c)
		}
	}
	if _, err := ParsePayload([]byte(`{"status":"OK"}`)); !errors.Is(err, ErrNoTimestamp) {
		t.Fatalf("want ErrNoTimestamp, got %v", err)
	}
}

func TestParsePayload_FractionalEpoch(t *testing.T) {
	base := time.Date(2025, 10, 13, 5, 20, 0, 0, time.UTC)
	cases := []struct {
		body string
		want time.Time
	}{
		{`{"timestamp":1760332800000.5}`, base.Add(500 * time.Microsecond)},
		{`{"timestamp":1760332800.25}`, base.Add(250 * time.Millisecond)},
	}
	for _, c := range cases {
		got, err := ParsePayload([]byte(c.body))
		if err != nil {
			t.Fatalf("%s: %v", c.body, err)
		}
		if d := got.Sub(c.want); d < -time.Microsecond || d > time.Microsecond {
			t.Fatalf("%s: got %v want %v", c.body, got.UTC(), c.want)
		}
	}
}

func TestSynchronizer_OutOfRangeEpochKeepsOffset(t *testing.T) {
	device := time.Date(2025, 10, 13, 5, 20, 0, 0, time.UTC)
	var body atomic.Value
	body.Store(`{"timestamp":1760332805000}`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body.Load().(string)))
	}))
	defer srv.Close()

	s := New(NewHTTPSource(srv.URL, "", time.Second), nil, WithDeviceClock(func() time.Time { return device }))
	s.Synchronize(context.Background())
	if s.Offset() != 5*time.Second {
		t.Fatalf("offset = %v", s.Offset())
	}
	body.Store(`{"timestamp":1e30}`)
	s.Synchronize(context.Background())
	if s.Offset() != 5*time.Second {
		t.Fatalf("bad payload changed offset to %v", s.Offset())
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			http.Error(w, "no token", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"timestamp":"2025-10-13T05:20:00Z"}`))
	}))
	defer srv.Close()

	got, err := NewHTTPSource(srv.URL, "secret", time.Second).ServerTime(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.Unix() != 1760332800 {
		t.Fatalf("got %v", got)
	}

	if _, err := NewHTTPSource(srv.URL, "", time.Second).ServerTime(context.Background()); err == nil {
		t.Fatal("expected http 401 error")
	}
}

func TestSynchronizer_HTTPFailureKeepsOffset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer srv.Close()

	dev := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	s := New(NewHTTPSource(srv.URL, "", time.Second), nil, WithDeviceClock(fixedDevice(dev)))
	s.Synchronize(context.Background())
	if s.Offset() != 0 || !s.Now().Equal(dev) {
		t.Fatalf("malformed payload must not change offset: %v", s.Offset())
	}
}
