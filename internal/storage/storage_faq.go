package storage

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type FAQEntry struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func faqKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PutFAQ creates or replaces an entry. Names are case-insensitive.
func (s *Storage) PutFAQ(guildID string, entry FAQEntry) error {
	return s.update(guildID, func(r *Record) error {
		r.FAQ[faqKey(entry.Name)] = entry
		return nil
	})
}

func (s *Storage) GetFAQ(guildID, name string) (FAQEntry, error) {
	record, err := s.view(guildID)
	if err != nil {
		return FAQEntry{}, err
	}
	entry, ok := record.FAQ[faqKey(name)]
	if !ok {
		return FAQEntry{}, ErrNotFound
	}
	return entry, nil
}

// ListFAQ returns the entry names in sorted order.
func (s *Storage) ListFAQ(guildID string) ([]string, error) {
	record, err := s.view(guildID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(record.FAQ))
	for _, e := range record.FAQ {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Storage) RemoveFAQ(guildID, name string) error {
	return s.update(guildID, func(r *Record) error {
		key := faqKey(name)
		if _, ok := r.FAQ[key]; !ok {
			return ErrNotFound
		}
		delete(r.FAQ, key)
		return nil
	})
}
