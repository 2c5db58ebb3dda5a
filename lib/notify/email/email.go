package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Client sends notifications over plain smtp. an alternative to the
// telegram sink for deployments without a bot.
type Client struct {
	opts Options
}

type Options struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
	Subject  string
}

const defaultSubject = "Nuova pubblicazione all'Albo Pretorio"

func NewClient(opts Options) *Client {
	if opts.Subject == "" {
		opts.Subject = defaultSubject
	}
	return &Client{opts: opts}
}

func (c *Client) Send(ctx context.Context, text string) error {
	msg := email.NewEmail()
	msg.From = c.opts.From
	msg.To = []string{c.opts.To}
	msg.Subject = c.opts.Subject
	msg.Text = []byte(text)

	addr := fmt.Sprintf("%s:%d", c.opts.Host, c.opts.Port)
	var auth smtp.Auth
	if c.opts.Username != "" {
		auth = smtp.PlainAuth("", c.opts.Username, c.opts.Password, c.opts.Host)
	}

	// email.Send carries no deadline of its own, a hung smtp server
	// would stall the dispatch loop without this
	done := make(chan error, 1)
	go func() {
		done <- msg.Send(addr, auth)
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
