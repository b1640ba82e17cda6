package audit

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type EventType string

const (
	EventAutoBlock        EventType = "auto_block"
	EventAdminBlock       EventType = "admin_block"
	EventDataReset        EventType = "data_reset"
	EventAdvancedEnabled  EventType = "advanced_enabled"
	EventAdvancedDisabled EventType = "advanced_disabled"
	EventCooldownChanged  EventType = "cooldown_changed"
)

type Event struct {
	Type    EventType
	UserID  string
	GroupID string
	Details map[string]interface{}
}

// Log emits a structured audit record for moderation-relevant actions:
// punitive blocks, admin resets, and advanced-feature toggles.
func Log(event Event) {
	logger := log.With().
		Str("audit", "moderation").
		Str("event_type", string(event.Type)).
		Time("timestamp", time.Now()).
		Logger()

	if event.UserID != "" {
		logger = logger.With().Str("user_id", event.UserID).Logger()
	}
	if event.GroupID != "" {
		logger = logger.With().Str("group_id", event.GroupID).Logger()
	}

	logEvent := logger.Info()
	for k, v := range event.Details {
		logEvent = addField(logEvent, k, v)
	}
	logEvent.Msg("moderation audit event")
}

func addField(e *zerolog.Event, key string, value interface{}) *zerolog.Event {
	switch v := value.(type) {
	case string:
		return e.Str(key, v)
	case int:
		return e.Int(key, v)
	case int64:
		return e.Int64(key, v)
	case bool:
		return e.Bool(key, v)
	default:
		return e.Interface(key, v)
	}
}
