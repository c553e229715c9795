package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DuplicatePolicy decides what happens when a second registration claims a
// command name or interaction id that is already taken.
type DuplicatePolicy int

const (
	// FirstWins keeps the earliest registration and logs a warning for the rest.
	FirstWins DuplicatePolicy = iota
	// Reject keeps the earliest registration and returns a *ConflictError.
	Reject
)

func (p DuplicatePolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	default:
		return "first-wins"
	}
}

// ParseDuplicatePolicy accepts "first-wins" (or "") and "reject".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-wins":
		return FirstWins, nil
	case "reject":
		return Reject, nil
	}
	return FirstWins, fmt.Errorf("unknown duplicate policy %q", s)
}

func (p *DuplicatePolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseDuplicatePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// RegistryOption configures a Registry or an InteractionRegistry.
type RegistryOption func(*registryConfig)

type registryConfig struct {
	policy DuplicatePolicy
	logger zerolog.Logger
}

// WithDuplicatePolicy sets the duplicate policy. The default is FirstWins.
func WithDuplicatePolicy(p DuplicatePolicy) RegistryOption {
	return func(c *registryConfig) { c.policy = p }
}

// WithLogger sets the logger used for registration warnings.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(c *registryConfig) { c.logger = l }
}

func newRegistryConfig(opts []RegistryOption) registryConfig {
	cfg := registryConfig{policy: FirstWins, logger: log.Logger}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c registryConfig) conflict(kind, key string) error {
	err := &ConflictError{Kind: kind, Key: key}
	if c.policy == Reject {
		return err
	}
	c.logger.Warn().
		Str("kind", kind).
		Str("key", key).
		Str("policy", c.policy.String()).
		Msg("duplicate registration discarded, keeping the first one")
	return nil
}
