package bot

import (
	"github.com/bwmarrin/discordgo"
)

// MessageContext is what the runtime hands a plugin for a new guild message.
type MessageContext struct {
	Session Session
	Event   *discordgo.MessageCreate
	// SelfID is the bot's own user id.
	SelfID string
}

func (c *MessageContext) GuildID() string   { return c.Event.GuildID }
func (c *MessageContext) ChannelID() string { return c.Event.ChannelID }
func (c *MessageContext) Content() string   { return c.Event.Content }

// AuthorID returns the author's user id, or "" for system messages.
func (c *MessageContext) AuthorID() string {
	if c.Event.Author == nil {
		return ""
	}
	return c.Event.Author.ID
}

// Reply answers the message in its channel, referencing it.
func (c *MessageContext) Reply(content string) error {
	_, err := c.Session.ChannelMessageSendComplex(c.Event.ChannelID, &discordgo.MessageSend{
		Content:   content,
		Reference: c.Event.Reference(),
	})
	return err
}

// ReplyEmbed answers the message with an embed and returns the sent message.
func (c *MessageContext) ReplyEmbed(embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	return c.Session.ChannelMessageSendComplex(c.Event.ChannelID, &discordgo.MessageSend{
		Embeds:    []*discordgo.MessageEmbed{embed},
		Reference: c.Event.Reference(),
	})
}

// ReplyComplex sends data as a reply to the message.
func (c *MessageContext) ReplyComplex(data *discordgo.MessageSend) (*discordgo.Message, error) {
	data.Reference = c.Event.Reference()
	return c.Session.ChannelMessageSendComplex(c.Event.ChannelID, data)
}

// ReactionContext carries a reaction being added or removed.
type ReactionContext struct {
	Session  Session
	Reaction *discordgo.MessageReaction
	// Member is set for reactions added in a guild.
	Member  *discordgo.Member
	Removed bool
	SelfID  string
}

func (c *ReactionContext) GuildID() string   { return c.Reaction.GuildID }
func (c *ReactionContext) ChannelID() string { return c.Reaction.ChannelID }
func (c *ReactionContext) MessageID() string { return c.Reaction.MessageID }
func (c *ReactionContext) UserID() string    { return c.Reaction.UserID }

// User returns the reacting user when the gateway sent member data.
func (c *ReactionContext) User() *discordgo.User {
	if c.Member != nil && c.Member.User != nil {
		return c.Member.User
	}
	return &discordgo.User{ID: c.Reaction.UserID}
}

// EmojiIs reports whether the reaction used emoji, ignoring variation selectors.
func (c *ReactionContext) EmojiIs(emoji string) bool {
	return SameEmoji(c.Reaction.Emoji.Name, emoji)
}

// InteractionContext carries a message component interaction (button press).
type InteractionContext struct {
	Session Session
	Event   *discordgo.InteractionCreate
	SelfID  string
}

// ID returns the component's custom id, e.g. "hilo.hi".
func (c *InteractionContext) ID() string {
	if c.Event.Type != discordgo.InteractionMessageComponent {
		return ""
	}
	return c.Event.MessageComponentData().CustomID
}

func (c *InteractionContext) GuildID() string { return c.Event.GuildID }

// UserID returns the pressing user's id in guilds and DMs alike.
func (c *InteractionContext) UserID() string {
	if c.Event.Member != nil && c.Event.Member.User != nil {
		return c.Event.Member.User.ID
	}
	if c.Event.User != nil {
		return c.Event.User.ID
	}
	return ""
}

// Update replaces the message the component belongs to.
func (c *InteractionContext) Update(data *discordgo.InteractionResponseData) error {
	return c.Session.InteractionRespond(c.Event.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	})
}

// RespondEphemeral answers the interaction with a message only the user sees.
func (c *InteractionContext) RespondEphemeral(content string) error {
	return RespondEphemeral(c.Session, c.Event, content)
}
