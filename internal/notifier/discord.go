package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/scriptink/writofest-api/internal/config"
	"github.com/scriptink/writofest-api/internal/models"
)

// DiscordNotifier posts new registrations to the organizers' channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
	event     EventInfo
}

func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" || cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord bot token or notifications channel not configured")
	}
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordNotifier{
		session:   session,
		channelID: cfg.DiscordNotificationsChannelID,
		event:     EventInfoFromConfig(cfg),
	}, nil
}

func (n *DiscordNotifier) Channel() string { return "discord" }

func (n *DiscordNotifier) NotifyRegistration(ctx context.Context, reg models.Registration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, registrationMessage(n.event, reg), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func registrationMessage(event EventInfo, reg models.Registration) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 **New %s registration**\n", event.Name)
	fmt.Fprintf(&b, "**Name:** %s\n", reg.Name)
	if reg.Usn != "" {
		fmt.Fprintf(&b, "**USN:** %s\n", reg.Usn)
	}
	if reg.College != "" {
		fmt.Fprintf(&b, "**College:** %s\n", reg.College)
	}
	if reg.Branch != "" || reg.Year != "" {
		fmt.Fprintf(&b, "**Branch/Year:** %s / %s\n", reg.Branch, reg.Year)
	}
	fmt.Fprintf(&b, "**Events:** %s", reg.Events)
	if reg.ReferrerCode != "" {
		fmt.Fprintf(&b, "\n**Referrer:** %s", reg.ReferrerCode)
	}
	return b.String()
}
