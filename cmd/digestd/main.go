package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/plantops/maintdash/config"
	"github.com/plantops/maintdash/internal/clients/caldav"
	"github.com/plantops/maintdash/internal/clients/maintapi"
	"github.com/plantops/maintdash/internal/notify"
	"github.com/plantops/maintdash/internal/scheduler"
	"github.com/plantops/maintdash/internal/service"
	"github.com/plantops/maintdash/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to init storage: %v", err)
	}
	defer store.Close()

	apiClient := maintapi.NewClient(cfg.APIBaseURL, cfg.APIToken)
	caldavClient := caldav.NewClient(cfg.CalDAVURL, cfg.CalDAVUsername, cfg.CalDAVPassword)
	if cfg.CalDAVCalendar != "" {
		caldavClient.SetCalendarPath(cfg.CalDAVCalendar)
	}

	planner := service.NewPlannerService(apiClient, cfg.WindowPadDays)
	tickets := service.NewTicketService(apiClient)
	calendarSvc := service.NewCalendarService(planner, caldavClient)

	sender, err := notify.NewTelegram(cfg.TelegramToken, cfg.MaintChatID)
	if err != nil {
		log.Fatalf("Failed to init telegram: %v", err)
	}
	if !sender.IsConfigured() {
		log.Println("Telegram not configured, digests disabled")
	}

	sched := scheduler.New(cfg, store, planner, tickets, calendarSvc)
	sched.SetSender(sender)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := sched.Start(ctx); err != nil {
			log.Printf("Scheduler error: %v", err)
		}
	}()

	log.Println("Maintdash digest daemon started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	cancel()
	sched.Stop()

	log.Println("Maintdash digest daemon stopped")
}
