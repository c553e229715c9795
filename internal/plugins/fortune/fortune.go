// Package fortune replies with a fortune fetched from a plain-text HTTP endpoint.
package fortune

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/keshon/botkit/internal/bot"
	"github.com/keshon/botkit/internal/command"
	"github.com/keshon/botkit/pkg/cmd"
	"github.com/keshon/botkit/pkg/retrylimit"

	"github.com/rs/zerolog"
)

// maxFortune is Discord's message length limit, in characters.
const maxFortune = 2000

type Plugin struct {
	url     string
	client  *http.Client
	limiter *retrylimit.AdaptiveLimiter
	policy  retrylimit.Policy
}

// New fetches from url. An empty url leaves the command registered but
// reporting a configuration error.
func New(url string, logger zerolog.Logger) *Plugin {
	policy := retrylimit.DefaultPolicy()
	policy.MaxAttempts = 3
	policy.Logger = logger.With().Str("plugin", "fortune").Logger()
	return &Plugin{
		url:     url,
		client:  &http.Client{Timeout: 10 * time.Second},
		limiter: retrylimit.NewAdaptiveLimiter(2, 1, 5, 1, 0.5),
		policy:  policy,
	}
}

func (p *Plugin) Name() string { return "fortune" }

func (p *Plugin) RegisterCommands(r *command.Registry) error {
	return cmd.RegisterAll(r, p, []cmd.Declaration[*Plugin, *bot.MessageContext]{
		{
			Path:    "fortune",
			Options: cmd.Options{Emoji: "🥠", Title: "Fortune", Description: "Crack open a fortune cookie"},
			Method:  (*Plugin).fortune,
		},
	})
}

func (p *Plugin) fortune(ctx context.Context, m *bot.MessageContext, _ cmd.Args) error {
	text, err := p.Fetch(ctx)
	if err != nil {
		return err
	}
	return m.Reply(text)
}

// Fetch returns one fortune.
func (p *Plugin) Fetch(ctx context.Context) (string, error) {
	if p.url == "" {
		return "", &cmd.ConfigurationError{Dependency: "FORTUNE_URL"}
	}
	var text string
	err := retrylimit.Do(ctx, p.limiter, p.policy, func(ctx context.Context) error {
		var err error
		text, err = p.get(ctx)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("fetch fortune: %w", err)
	}
	return text, nil
}

func (p *Plugin) get(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return "", retrylimit.Permanent(&cmd.ConfigurationError{Dependency: "FORTUNE_URL", Err: err})
	}
	req.Header.Set("Accept", "text/plain")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		se := &retrylimit.StatusError{Code: resp.StatusCode, URL: p.url}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", retrylimit.Permanent(se)
		}
		return "", se
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFortune*utf8.UTFMax))
	if err != nil {
		return "", err
	}
	text := truncate(strings.TrimSpace(strings.ToValidUTF8(string(body), "")), maxFortune)
	if text == "" {
		return "", retrylimit.Permanent(errors.New("empty fortune"))
	}
	return text, nil
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return strings.TrimSpace(s[:pos])
		}
		i++
	}
	return s
}
