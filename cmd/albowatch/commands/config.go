package commands

import (
	"errors"
	"fmt"
	"time"

	"albowatch-backend/lib/configutil"
	"albowatch-backend/lib/notify"
	"albowatch-backend/lib/notify/email"
	"albowatch-backend/lib/notify/telegram"
	"albowatch-backend/lib/osutil"
	"albowatch-backend/lib/scrapers/albo"
	"albowatch-backend/services/watcher"
	"albowatch-backend/services/watcher/store"
)

type BoardConfig struct {
	// first listing page, pagination is discovered from here
	EntryUrl string `json:"entry_url"`
	// relative links on rows and detail pages resolve against this
	BaseUrl       string `json:"base_url"`
	MaxPages      int    `json:"max_pages"`
	EnrichDetails bool   `json:"enrich_details"`
}

type TelegramConfig struct {
	BotToken string `json:"bot_token"`
	ChatId   string `json:"chat_id"`
}

type EmailConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	From     string `json:"from"`
	To       string `json:"to"`
}

type NotifierConfig struct {
	// "telegram" (default) or "email"
	Kind     string         `json:"kind"`
	Telegram TelegramConfig `json:"telegram"`
	Email    EmailConfig    `json:"email"`
}

type GistConfig struct {
	Id       string `json:"id"`
	Token    string `json:"token"`
	Filename string `json:"filename"`
}

type SqliteConfig struct {
	Path string `json:"path"`
}

type StoreConfig struct {
	// "gist" (default) or "sqlite"
	Kind   string       `json:"kind"`
	Gist   GistConfig   `json:"gist"`
	Sqlite SqliteConfig `json:"sqlite"`
}

type DelaysConfig struct {
	PageMs   int `json:"page_ms"`
	DetailMs int `json:"detail_ms"`
	NotifyMs int `json:"notify_ms"`
}

type Config struct {
	Board    BoardConfig    `json:"board"`
	Notifier NotifierConfig `json:"notifier"`
	Store    StoreConfig    `json:"store"`
	Delays   DelaysConfig   `json:"delays"`
	// cron spec for the watch daemon
	Schedule string `json:"schedule"`
}

func (c Config) validate() error {
	var missing []string
	if c.Board.EntryUrl == "" {
		missing = append(missing, "board.entry_url")
	}
	if c.Board.BaseUrl == "" {
		missing = append(missing, "board.base_url")
	}

	switch c.Notifier.Kind {
	case "", "telegram":
		if c.Notifier.Telegram.BotToken == "" {
			missing = append(missing, "notifier.telegram.bot_token")
		}
		if c.Notifier.Telegram.ChatId == "" {
			missing = append(missing, "notifier.telegram.chat_id")
		}
	case "email":
		if c.Notifier.Email.Host == "" {
			missing = append(missing, "notifier.email.host")
		}
		if c.Notifier.Email.From == "" {
			missing = append(missing, "notifier.email.from")
		}
		if c.Notifier.Email.To == "" {
			missing = append(missing, "notifier.email.to")
		}
	default:
		return fmt.Errorf("unknown notifier kind %q", c.Notifier.Kind)
	}

	switch c.Store.Kind {
	case "", "gist":
		if c.Store.Gist.Id == "" {
			missing = append(missing, "store.gist.id")
		}
		if c.Store.Gist.Token == "" {
			missing = append(missing, "store.gist.token")
		}
	case "sqlite":
		if c.Store.Sqlite.Path == "" {
			missing = append(missing, "store.sqlite.path")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}

	if len(missing) > 0 {
		var errlist []error
		for _, field := range missing {
			errlist = append(errlist, fmt.Errorf("missing required config field %s", field))
		}
		return errors.Join(errlist...)
	}
	return nil
}

func (c Config) delays() watcher.Delays {
	ms := func(n, fallback int) time.Duration {
		if n <= 0 {
			n = fallback
		}
		return time.Duration(n) * time.Millisecond
	}
	return watcher.Delays{
		Page:   ms(c.Delays.PageMs, 1000),
		Detail: ms(c.Delays.DetailMs, 1000),
		Notify: ms(c.Delays.NotifyMs, 2000),
	}
}

// mustConfig loads and validates the configuration, exiting before
// any network activity when required credentials are missing.
func mustConfig() Config {
	config, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		osutil.Fatal("failed to read config", err)
	}
	err = config.validate()
	if err != nil {
		osutil.Fatal("invalid config", err)
	}
	return config
}

func buildStore(cfg StoreConfig) (store.Store, func(), error) {
	if cfg.Kind == "sqlite" {
		sqlite, err := store.NewSqliteStore(cfg.Sqlite.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite, func() { sqlite.Close() }, nil
	}
	gist := store.NewGistStore(store.GistOptions{
		Id:       cfg.Gist.Id,
		Token:    cfg.Gist.Token,
		Filename: cfg.Gist.Filename,
	})
	return gist, func() {}, nil
}

func buildNotifier(cfg NotifierConfig) notify.Notifier {
	if cfg.Kind == "email" {
		return email.NewClient(email.Options{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		})
	}
	return telegram.NewClient(telegram.Options{
		BotToken: cfg.Telegram.BotToken,
		ChatId:   cfg.Telegram.ChatId,
	})
}

func mustService(config Config) (watcher.Service, func()) {
	scraper, err := albo.NewClient(albo.ClientOptions{BaseUrl: config.Board.BaseUrl})
	if err != nil {
		osutil.Fatal("failed to initialize board client", err)
	}

	st, cleanup, err := buildStore(config.Store)
	if err != nil {
		osutil.Fatal("failed to initialize snapshot store", err)
	}

	service := watcher.NewService(scraper, st, buildNotifier(config.Notifier), watcher.Options{
		EntryUrl:      config.Board.EntryUrl,
		MaxPages:      config.Board.MaxPages,
		EnrichDetails: config.Board.EnrichDetails,
		Delays:        config.delays(),
	})
	return service, cleanup
}
