package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Pagination emoji. Pages are stateless: the current page and the page count
// travel in the embed footer of the rendered message itself.
const (
	PrevPageEmoji = "⏮"
	NextPageEmoji = "⏭"
)

// SameEmoji compares two unicode emoji ignoring the U+FE0F variation selector
// some clients append.
func SameEmoji(a, b string) bool {
	return strings.TrimSuffix(a, "\ufe0f") == strings.TrimSuffix(b, "\ufe0f")
}

// PageFooter renders "Page n/total".
func PageFooter(page, total int) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("Page %d/%d", page, total)}
}

// ParsePage reads the page state back from an embed rendered with PageFooter.
func ParsePage(embed *discordgo.MessageEmbed) (page, total int, ok bool) {
	if embed == nil || embed.Footer == nil {
		return 0, 0, false
	}
	if _, err := fmt.Sscanf(embed.Footer.Text, "Page %d/%d", &page, &total); err != nil {
		return 0, 0, false
	}
	if page < 1 || total < 1 || page > total {
		return 0, 0, false
	}
	return page, total, true
}

// PageCount returns how many pages of perPage items n items need (at least one).
func PageCount(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 1
	}
	return (n + perPage - 1) / perPage
}

// Page returns the items of the 1-based page, clamping page into range.
func Page[T any](items []T, page, perPage int) ([]T, int) {
	total := PageCount(len(items), perPage)
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	if perPage <= 0 {
		return items, page
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return nil, page
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page
}

// Step moves page by delta, wrapping around at both ends.
func Step(page, total, delta int) int {
	if total < 1 {
		return 1
	}
	p := ((page-1+delta)%total + total) % total
	return p + 1
}
