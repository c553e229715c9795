// Package console runs the bot against a terminal instead of Discord.
package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/keshon/botkit/internal/bot"

	"github.com/bwmarrin/discordgo"
)

var _ bot.Session = (*Session)(nil)

// Session prints what plugins send and remembers the messages so later
// edits, reactions and button presses can find them.
type Session struct {
	mu       sync.Mutex
	out      io.Writer
	messages map[string]*discordgo.Message
	nextID   int
	last     *discordgo.Message
}

func NewSession(out io.Writer) *Session {
	return &Session{out: out, messages: make(map[string]*discordgo.Message)}
}

// Last returns the latest message the bot sent, or nil.
func (s *Session) Last() *discordgo.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Session) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (s *Session) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := &discordgo.Message{
		ID:         fmt.Sprintf("m%d", s.nextID),
		ChannelID:  channelID,
		Author:     &discordgo.User{ID: SelfID, Username: "botkit", Bot: true},
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
	}
	s.messages[m.ID] = m
	s.last = m
	s.print(m.ID, m.Content, m.Embeds, m.Components)
	return m, nil
}

func (s *Session) ChannelMessageEditComplex(e *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[e.ID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", e.ID)
	}
	if e.Content != nil {
		m.Content = *e.Content
	}
	if e.Embeds != nil {
		m.Embeds = *e.Embeds
	}
	if e.Components != nil {
		m.Components = *e.Components
	}
	s.print(m.ID+" (edited)", m.Content, m.Embeds, m.Components)
	return m, nil
}

func (s *Session) ChannelMessage(_, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[messageID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", messageID)
	}
	return m, nil
}

func (s *Session) MessageReactionAdd(_, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "[%s] +%s\n", messageID, emojiID)
	return nil
}

func (s *Session) MessageReactionRemove(_, messageID, emojiID, userID string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "[%s] -%s by %s\n", messageID, emojiID, userID)
	return nil
}

func (s *Session) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data := resp.Data
	if data == nil {
		data = &discordgo.InteractionResponseData{}
	}
	if resp.Type == discordgo.InteractionResponseUpdateMessage && i.Message != nil {
		if m, ok := s.messages[i.Message.ID]; ok {
			m.Content, m.Embeds, m.Components = data.Content, data.Embeds, data.Components
			s.print(m.ID+" (updated)", m.Content, m.Embeds, m.Components)
			return nil
		}
	}
	label := "reply"
	if data.Flags&discordgo.MessageFlagsEphemeral != 0 {
		label = "only you"
	}
	s.print(label, data.Content, data.Embeds, data.Components)
	return nil
}

func (s *Session) print(label, content string, embeds []*discordgo.MessageEmbed, components []discordgo.MessageComponent) {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", label)
	if content != "" {
		b.WriteString(" " + content)
	}
	b.WriteString("\n")
	for _, e := range embeds {
		writeEmbed(&b, e)
	}
	if ids := buttonIDs(components); len(ids) > 0 {
		fmt.Fprintf(&b, "  buttons: %s\n", strings.Join(ids, ", "))
	}
	io.WriteString(s.out, b.String())
}

func writeEmbed(b *strings.Builder, e *discordgo.MessageEmbed) {
	if e.Title != "" {
		fmt.Fprintf(b, "  == %s ==\n", e.Title)
	}
	if e.Description != "" {
		fmt.Fprintf(b, "  %s\n", strings.ReplaceAll(e.Description, "\n", "\n  "))
	}
	for _, f := range e.Fields {
		fmt.Fprintf(b, "  %s: %s\n", f.Name, f.Value)
	}
	if e.Footer != nil && e.Footer.Text != "" {
		fmt.Fprintf(b, "  -- %s\n", e.Footer.Text)
	}
}

// buttonIDs lists the custom ids of every button in components.
func buttonIDs(components []discordgo.MessageComponent) []string {
	var ids []string
	for _, c := range components {
		switch v := c.(type) {
		case discordgo.ActionsRow:
			ids = append(ids, buttonIDs(v.Components)...)
		case *discordgo.ActionsRow:
			ids = append(ids, buttonIDs(v.Components)...)
		case discordgo.Button:
			if !v.Disabled {
				ids = append(ids, v.CustomID)
			}
		case *discordgo.Button:
			if !v.Disabled {
				ids = append(ids, v.CustomID)
			}
		}
	}
	return ids
}
