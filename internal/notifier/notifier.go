package notifier

import (
	"context"

	"github.com/scriptink/writofest-api/internal/config"
	"github.com/scriptink/writofest-api/internal/models"
)

// Notifier delivers a message about a new registration.
type Notifier interface {
	Channel() string
	NotifyRegistration(ctx context.Context, reg models.Registration) error
}

// EventInfo is the fixed event metadata included in notifications.
type EventInfo struct {
	Name     string
	Date     string
	Venue    string
	GroupURL string
}

func EventInfoFromConfig(cfg *config.Config) EventInfo {
	return EventInfo{
		Name:     cfg.EventName,
		Date:     cfg.EventDate,
		Venue:    cfg.EventVenue,
		GroupURL: cfg.EventGroupURL,
	}
}
