package storage

import (
	"errors"
	"slices"
	"time"
)

// ErrQueueFull is returned by AddSong when every stored song is still waiting to be posted.
var ErrQueueFull = errors.New("song queue is full")

// Song is a song-of-the-day submission. PostedAt is zero until the daily job posts it.
type Song struct {
	URL      string    `json:"url"`
	AddedBy  string    `json:"added_by"`
	AddedAt  time.Time `json:"added_at"`
	PostedAt time.Time `json:"posted_at,omitempty"`
}

func (s Song) Posted() bool { return !s.PostedAt.IsZero() }

// AddSong queues a submission and remembers channelID as the guild's announce channel.
// At the limit the oldest posted song makes room; unposted songs are never dropped.
func (s *Storage) AddSong(guildID, channelID string, song Song) error {
	return s.update(guildID, func(r *Record) error {
		if len(r.Songs) >= songHistoryLimit {
			i := slices.IndexFunc(r.Songs, Song.Posted)
			if i < 0 {
				return ErrQueueFull
			}
			r.Songs = slices.Delete(r.Songs, i, i+1)
		}
		r.Songs = append(r.Songs, song)
		r.SotdChannelID = channelID
		return nil
	})
}

// Songs returns the guild's songs, newest first.
func (s *Storage) Songs(guildID string) ([]Song, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	out := make([]Song, len(record.Songs))
	for i, song := range record.Songs {
		out[len(out)-1-i] = song
	}
	return out, nil
}

func (s *Storage) SotdChannel(guildID string) (string, error) {
	record, err := s.view(guildID)
	if err != nil {
		return "", err
	}
	return record.SotdChannelID, nil
}

// NextSong marks the oldest unposted song as posted at now and returns it.
// It returns ErrNotFound when nothing is queued.
func (s *Storage) NextSong(guildID string, now time.Time) (Song, error) {
	var next Song
	err := s.update(guildID, func(r *Record) error {
		for i := range r.Songs {
			if !r.Songs[i].Posted() {
				r.Songs[i].PostedAt = now
				next = r.Songs[i]
				return nil
			}
		}
		return ErrNotFound
	})
	return next, err
}
