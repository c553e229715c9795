// Package bottest provides a recording bot.Session for tests.
package bottest

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
)

// Sent is one outbound message recorded by Session.
type Sent struct {
	ChannelID string
	Content   string
	Embeds    []*discordgo.MessageEmbed
	// Components holds the action rows of the message, if any.
	Components []discordgo.MessageComponent
}

// Session records everything plugins send. Messages it "sends" are kept so
// ChannelMessage can return them later, which is what reaction pagination needs.
type Session struct {
	mu        sync.Mutex
	Sent      []Sent
	Edits     []*discordgo.MessageEdit
	Reactions []string
	Responses []*discordgo.InteractionResponse
	messages  map[string]*discordgo.Message
	nextID    int
	// SendErr, when set, is returned by every send.
	SendErr error
	// ReactionErr, when set, is returned by reaction removals.
	ReactionErr error
}

func New() *Session {
	return &Session{messages: make(map[string]*discordgo.Message)}
}

// Put stores a message so ChannelMessage can find it.
func (s *Session) Put(m *discordgo.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ChannelID+"/"+m.ID] = m
}

func (s *Session) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	return s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{Content: content})
}

func (s *Session) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SendErr != nil {
		return nil, s.SendErr
	}
	s.nextID++
	m := &discordgo.Message{
		ID:         fmt.Sprintf("m%d", s.nextID),
		ChannelID:  channelID,
		Content:    data.Content,
		Embeds:     data.Embeds,
		Components: data.Components,
	}
	s.messages[channelID+"/"+m.ID] = m
	s.Sent = append(s.Sent, Sent{ChannelID: channelID, Content: data.Content, Embeds: data.Embeds, Components: data.Components})
	return m, nil
}

func (s *Session) ChannelMessageEditComplex(e *discordgo.MessageEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Edits = append(s.Edits, e)
	m, ok := s.messages[e.Channel+"/"+e.ID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", e.ID)
	}
	if e.Embeds != nil {
		m.Embeds = *e.Embeds
	}
	if e.Content != nil {
		m.Content = *e.Content
	}
	return m, nil
}

func (s *Session) ChannelMessage(channelID, messageID string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[channelID+"/"+messageID]
	if !ok {
		return nil, fmt.Errorf("message %s not found", messageID)
	}
	return m, nil
}

func (s *Session) MessageReactionAdd(channelID, messageID, emojiID string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reactions = append(s.Reactions, "+"+emojiID)
	return nil
}

func (s *Session) MessageReactionRemove(channelID, messageID, emojiID, userID string, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ReactionErr != nil {
		return s.ReactionErr
	}
	s.Reactions = append(s.Reactions, "-"+emojiID)
	return nil
}

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Responses = append(s.Responses, resp)
	return nil
}

// Contents returns the content of every sent message, in order.
func (s *Session) Contents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.Sent))
	for _, m := range s.Sent {
		out = append(out, m.Content)
	}
	return out
}

// LastEmbed returns the first embed of the last sent message, or nil.
func (s *Session) LastEmbed() *discordgo.MessageEmbed {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Sent) == 0 || len(s.Sent[len(s.Sent)-1].Embeds) == 0 {
		return nil
	}
	return s.Sent[len(s.Sent)-1].Embeds[0]
}

// MessageCreate builds a guild message event from author.
func MessageCreate(guildID, channelID, authorID, content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		ID:        "in-" + content,
		GuildID:   guildID,
		ChannelID: channelID,
		Content:   content,
		Author:    &discordgo.User{ID: authorID, Username: authorID},
	}}
}
