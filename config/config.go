package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	APIBaseURL     string
	APIToken       string
	TelegramToken  string
	MaintChatID    int64
	DatabasePath   string
	Timezone       *time.Location
	DigestTime     string
	WindowPadDays  int
	PublishDays    int
	CalDAVURL      string
	CalDAVUsername string
	CalDAVPassword string
	CalDAVCalendar string
}

func Load() (*Config, error) {
	apiURL := os.Getenv("MAINTDASH_API_URL")
	if apiURL == "" {
		return nil, fmt.Errorf("MAINTDASH_API_URL is required")
	}

	var chatID int64
	if c := os.Getenv("MAINT_CHAT_ID"); c != "" {
		var err error
		chatID, err = strconv.ParseInt(c, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("MAINT_CHAT_ID must be a number")
		}
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/maintdash.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "UTC"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	digestTime := os.Getenv("DIGEST_TIME")
	if digestTime == "" {
		digestTime = "07:00"
	}

	padDays := 7
	if p := os.Getenv("WINDOW_PAD_DAYS"); p != "" {
		padDays, err = strconv.Atoi(p)
		if err != nil || padDays < 0 {
			return nil, fmt.Errorf("WINDOW_PAD_DAYS must be a non-negative number")
		}
	}

	publishDays := 30
	if p := os.Getenv("PUBLISH_DAYS"); p != "" {
		publishDays, err = strconv.Atoi(p)
		if err != nil || publishDays < 1 {
			return nil, fmt.Errorf("PUBLISH_DAYS must be a positive number")
		}
	}

	return &Config{
		APIBaseURL:     apiURL,
		APIToken:       os.Getenv("MAINTDASH_API_TOKEN"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		MaintChatID:    chatID,
		DatabasePath:   dbPath,
		Timezone:       tz,
		DigestTime:     digestTime,
		WindowPadDays:  padDays,
		PublishDays:    publishDays,
		CalDAVURL:      os.Getenv("CALDAV_URL"),
		CalDAVUsername: os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword: os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendar: os.Getenv("CALDAV_CALENDAR"),
	}, nil
}
