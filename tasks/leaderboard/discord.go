package leaderboard

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"streak-bot/model"
)

// Discord adapts a discordgo session to the interfaces the pipeline uses.
type Discord struct {
	Session *discordgo.Session
}

func (d *Discord) FindGuild(ctx context.Context, guildID string) error {
	if d.Session.State != nil {
		if _, err := d.Session.State.Guild(guildID); err == nil {
			return nil
		}
	}
	if _, err := d.Session.Guild(guildID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("guild %s not found: %w", guildID, err)
	}
	return nil
}

func (d *Discord) FindChannel(ctx context.Context, guildID, channelID string) error {
	ch, err := d.Session.Channel(channelID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("channel %s not found: %w", channelID, err)
	}
	if ch.GuildID != guildID {
		return fmt.Errorf("channel %s belongs to guild %s, not %s", channelID, ch.GuildID, guildID)
	}
	return nil
}

func (d *Discord) Members(ctx context.Context, guildID, after string, limit int) ([]model.Member, error) {
	members, err := d.Session.GuildMembers(guildID, after, limit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return convertMembers(members), nil
}

func (d *Discord) SearchMembers(ctx context.Context, guildID, query string, limit int) ([]model.Member, error) {
	members, err := d.Session.GuildMembersSearch(guildID, query, limit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return convertMembers(members), nil
}

func (d *Discord) Messages(ctx context.Context, channelID string, limit int) ([]Message, error) {
	msgs, err := d.Session.ChannelMessages(channelID, limit, "", "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		msg := Message{ID: m.ID}
		if m.Author != nil {
			msg.AuthorID = m.Author.ID
		}
		out = append(out, msg)
	}
	return out, nil
}

func (d *Discord) Delete(ctx context.Context, channelID, messageID string) error {
	return d.Session.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx))
}

func (d *Discord) Send(ctx context.Context, channelID, content string) (string, error) {
	msg, err := d.Session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func convertMembers(members []*discordgo.Member) []model.Member {
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if m == nil || m.User == nil {
			continue
		}
		out = append(out, MemberFromDiscord(m))
	}
	return out
}

// MemberFromDiscord converts a guild member. The display name is the guild
// nickname, then the global name, then the username.
func MemberFromDiscord(m *discordgo.Member) model.Member {
	display := m.Nick
	if display == "" {
		display = m.User.GlobalName
	}
	if display == "" {
		display = m.User.Username
	}
	return model.Member{
		ID:          m.User.ID,
		Username:    m.User.Username,
		DisplayName: display,
	}
}
