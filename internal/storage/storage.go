// /internal/storage/storage.go
package storage

import (
	"fmt"
	"sync"

	"github.com/keshon/botkit/datastore"

	"github.com/rs/zerolog"
)

const (
	commandHistoryLimit int = 20
	songHistoryLimit    int = 100
)

// Storage keeps one Record per guild in the datastore, keyed by guild id.
type Storage struct {
	ds *datastore.DataStore
	// mu serialises read-modify-write cycles on records
	mu sync.Mutex
}

// Record is everything stored for one guild.
type Record struct {
	CommandsHistory []CommandHistoryRecord `json:"cmd_history"`
	FAQ             map[string]FAQEntry    `json:"faq"`
	Songs           []Song                 `json:"songs"`
	SotdChannelID   string                 `json:"sotd_channel_id,omitempty"`
}

func New(ds *datastore.DataStore) *Storage {
	return &Storage{ds: ds}
}

// Open opens the datastore file at path.
func Open(path string, logger zerolog.Logger) (*Storage, error) {
	cfg := datastore.DefaultConfig(path)
	cfg.Logger = logger
	ds, err := datastore.Open(cfg)
	if err != nil {
		return nil, err
	}
	return New(ds), nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// Guilds returns the ids of every guild with a record.
func (s *Storage) Guilds() []string {
	return s.ds.Keys()
}

func (s *Storage) load(guildID string) (*Record, error) {
	var record Record
	if _, err := s.ds.Get(guildID, &record); err != nil {
		return nil, fmt.Errorf("load guild %s: %w", guildID, err)
	}
	if record.FAQ == nil {
		record.FAQ = map[string]FAQEntry{}
	}
	if len(record.CommandsHistory) > commandHistoryLimit {
		record.CommandsHistory = record.CommandsHistory[len(record.CommandsHistory)-commandHistoryLimit:]
	}
	return &record, nil
}

// view returns a copy of the guild's record; a missing guild reads as empty.
func (s *Storage) view(guildID string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(guildID)
}

// update applies fn to the guild's record and stores the result unless fn fails.
func (s *Storage) update(guildID string, fn func(*Record) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.load(guildID)
	if err != nil {
		return err
	}
	if err := fn(record); err != nil {
		return err
	}
	if err := s.ds.Put(guildID, record); err != nil {
		return fmt.Errorf("store guild %s: %w", guildID, err)
	}
	return nil
}
