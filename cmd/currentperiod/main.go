// currentperiod печатает таблицу уроков школы и активный урок.
//
//	currentperiod -school 34002 [-term 2025-2026] [-precision second] [-at 08:20]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Spok95/smartschool/internal/db"
	"github.com/Spok95/smartschool/internal/logging"
	"github.com/Spok95/smartschool/internal/models"
	"github.com/Spok95/smartschool/internal/period"
	"github.com/Spok95/smartschool/internal/schedule"
)

func main() {
	_ = godotenv.Load()

	school := flag.String("school", os.Getenv("SCHOOL_CODE"), "school code")
	term := flag.String("term", "", "academic term, e.g. 2025-2026 (default: current)")
	prec := flag.String("precision", "minute", "minute|second")
	at := flag.String("at", "", "school-local time of day to resolve instead of now")
	tz := flag.String("tz", envOr("SCHOOL_TZ", "Asia/Nicosia"), "school time zone")
	defaults := flag.Bool("defaults", false, "use the default bell schedule instead of the database")
	flag.Parse()

	if *school == "" {
		log.Fatal("-school is required")
	}
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		log.Fatalf("tz: %v", err)
	}
	p, err := period.ParsePrecision(*prec)
	if err != nil {
		log.Fatal(err)
	}
	now := time.Now().In(loc)
	if *term == "" {
		*term = schedule.AcademicTerm(now)
	}
	if *at != "" {
		sec, err := period.ParseClock(*at)
		if err != nil {
			log.Fatalf("-at: %v", err)
		}
		y, m, d := now.Date()
		now = time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(sec) * time.Second)
	}

	lg, err := logging.Init(envOr("LOG_LEVEL", "warn"), "dev")
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Closer()

	periods := db.DefaultPeriods(*school, *term)
	if !*defaults {
		periods, err = loadPeriods(*school, *term)
		if err != nil {
			lg.Base.Fatal("load periods", zap.Error(err))
		}
	}

	r := period.NewResolver(lg.Base)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tSTART\tEND\tNAME\tSTATUS")
	for _, w := range r.Windows(periods, p) {
		status := "ok"
		switch {
		case w.Err != nil:
			status = w.Err.Error()
		case !w.Valid():
			status = "start is not before end"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", w.Period.PeriodNo, w.Period.StartTime, w.Period.EndTime, w.Period.DisplayName, status)
	}
	_ = tw.Flush()

	fmt.Printf("\n%s %s, %s (day %d)\n", *school, *term, now.Format("2006-01-02 15:04:05 MST"), schedule.DayOfWeek(now, loc))
	if active := r.Active(periods, now, loc, p); active != nil {
		fmt.Printf("active: period %d, %s-%s\n", active.PeriodNo, active.StartTime, active.EndTime)
	} else {
		fmt.Println("active: none")
	}
}

func loadPeriods(school, term string) ([]models.PeriodWindow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	database, err := db.Open(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, err
	}
	defer database.Close()
	return db.NewStore(database).PeriodWindows(ctx, school, term)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
