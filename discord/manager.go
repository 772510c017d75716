package discord

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/phturb/domain-randomizer/catalog"
)

// Sender is the part of *discordgo.Session the manager needs.
type Sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type discordManager struct {
	session   Sender
	channelID string
}

type DiscordManager interface {
	AnnounceTeam(players []string, slots []*catalog.CharacterRecord) error
}

var _ DiscordManager = (*discordManager)(nil)

func NewDiscordManager(token string, channelID string) (*discordManager, error) {
	if token == "" {
		return nil, errors.New("discord token is not configured")
	}
	ds, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return newDiscordManager(ds, channelID)
}

func newDiscordManager(s Sender, channelID string) (*discordManager, error) {
	if channelID == "" {
		return nil, errors.New("discord channel id is not configured")
	}
	return &discordManager{
		session:   s,
		channelID: channelID,
	}, nil
}

// AnnounceTeam posts the drawn team to the configured channel.
func (d *discordManager) AnnounceTeam(players []string, slots []*catalog.CharacterRecord) error {
	msg := FormatTeam(players, slots)
	if _, err := d.session.ChannelMessageSend(d.channelID, msg); err != nil {
		slog.Error(fmt.Sprintf("[AnnounceTeam] - failed to send team : %s", err.Error()))
		return err
	}
	slog.Info("[AnnounceTeam] - team sent to channel " + d.channelID)
	return nil
}

// FormatTeam renders one line per slot; empty slots show as "--".
func FormatTeam(players []string, slots []*catalog.CharacterRecord) string {
	var b strings.Builder
	b.WriteString("**Domain team**")
	if len(players) > 0 {
		b.WriteString(" for ")
		b.WriteString(strings.Join(players, ", "))
	}
	for i, c := range slots {
		b.WriteString(fmt.Sprintf("\n%d. ", i+1))
		if c == nil {
			b.WriteString("--")
			continue
		}
		b.WriteString(fmt.Sprintf("%s (%s)", c.FullName, c.Stars))
	}
	return b.String()
}
