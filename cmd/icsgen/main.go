package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/plantops/maintdash/config"
	"github.com/plantops/maintdash/internal/clients/maintapi"
	"github.com/plantops/maintdash/internal/service"
)

// icsgen writes the maintenance calendar for a date window to an .ics file,
// for crews that want the schedule without CalDAV.
func main() {
	fromFlag := flag.String("from", "", "window start as yyyy-mm-dd (default: today)")
	days := flag.Int("days", 30, "window length in days")
	out := flag.String("out", "maintenance.ics", "output file path")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	from := time.Now().In(cfg.Timezone)
	if *fromFlag != "" {
		from, err = time.Parse("2006-01-02", *fromFlag)
		if err != nil {
			log.Fatalf("Invalid -from date: %v", err)
		}
	}
	to := from.AddDate(0, 0, *days)

	apiClient := maintapi.NewClient(cfg.APIBaseURL, cfg.APIToken)
	planner := service.NewPlannerService(apiClient, 0)
	calendarSvc := service.NewCalendarService(planner, nil)

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	if err := calendarSvc.WriteICS(f, from, to); err != nil {
		log.Fatalf("Failed to write calendar: %v", err)
	}

	log.Printf("Wrote %s (%s to %s)", *out, from.Format("2006-01-02"), to.Format("2006-01-02"))
}
