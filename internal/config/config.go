package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Spok95/smartschool/internal/period"
)

type Config struct {
	DatabaseURL string
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	JWTSecret   string

	Location     *time.Location
	SchoolCode   string
	AcademicTerm string // пусто: учебный год вычисляется по текущей дате
	Precision    period.Precision

	TimeSourceURL   string
	TimeSourceToken string

	ResolveInterval   time.Duration
	ClockSyncInterval time.Duration
	ReloadInterval    time.Duration
	RosterTimeout     time.Duration

	BotToken        string
	TeacherChats    map[string]int64
	TrackedTeachers []string

	SeedDefaultPeriods bool
}

func Load() (*Config, error) {
	tz := getenv("SCHOOL_TZ", "Asia/Nicosia")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("SCHOOL_TZ: %w", err)
	}
	prec, err := period.ParsePrecision(os.Getenv("PERIOD_PRECISION"))
	if err != nil {
		return nil, fmt.Errorf("PERIOD_PRECISION: %w", err)
	}
	chats, err := parseChats(os.Getenv("TEACHER_CHATS"))
	if err != nil {
		return nil, fmt.Errorf("TEACHER_CHATS: %w", err)
	}

	cfg := &Config{
		DatabaseURL:     mustEnv("DATABASE_URL"),
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		Env:             getenv("ENV", "dev"),
		SentryDSN:       os.Getenv("SENTRY_DSN"),
		JWTSecret:       mustEnv("JWT_SECRET"),
		Location:        loc,
		SchoolCode:      os.Getenv("SCHOOL_CODE"),
		AcademicTerm:    os.Getenv("ACADEMIC_TERM"),
		Precision:       prec,
		TimeSourceURL:   os.Getenv("TIME_SOURCE_URL"),
		TimeSourceToken: os.Getenv("TIME_SOURCE_TOKEN"),
		BotToken:        os.Getenv("BOT_TOKEN"),
		TeacherChats:    chats,
		TrackedTeachers: parseList(os.Getenv("TRACKED_TEACHERS")),

		SeedDefaultPeriods: os.Getenv("SEED_DEFAULT_PERIODS") == "true",
	}
	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"RESOLVE_INTERVAL", 30 * time.Second, &cfg.ResolveInterval},
		{"CLOCK_SYNC_INTERVAL", 15 * time.Minute, &cfg.ClockSyncInterval},
		{"RELOAD_INTERVAL", 10 * time.Minute, &cfg.ReloadInterval},
		{"ROSTER_TIMEOUT", 5 * time.Second, &cfg.RosterTimeout},
	}
	for _, d := range durations {
		v, err := getDuration(d.key, d.def)
		if err != nil {
			return nil, err
		}
		*d.dst = v
	}
	if len(cfg.TrackedTeachers) == 0 {
		for id := range chats {
			cfg.TrackedTeachers = append(cfg.TrackedTeachers, id)
		}
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: bad duration %q", k, v)
	}
	return d, nil
}

func parseList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) == 0 {
		return nil
	}
	return parts
}

// parseChats разбирает "T1:123,T2:456": учитель → telegram chat id.
func parseChats(s string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, p := range parseList(s) {
		id, chat, ok := strings.Cut(p, ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("bad pair %q", p)
		}
		var n int64
		if _, err := fmt.Sscan(chat, &n); err != nil {
			return nil, fmt.Errorf("bad chat id %q: %w", chat, err)
		}
		out[id] = n
	}
	return out, nil
}
