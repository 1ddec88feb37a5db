package notifications

import (
	"database/sql"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/homenode/db"
	"github.com/thatsimonsguy/homenode/internal/datadog"
	"github.com/thatsimonsguy/homenode/internal/model"
)

// AuditNotifier records alarm arm and disarm events in the audit database.
// A nil database only logs.
type AuditNotifier struct {
	conn *sql.DB
}

func NewAuditNotifier(conn *sql.DB) *AuditNotifier {
	if conn == nil {
		log.Warn().Msg("Audit database not configured - arm events will only be logged")
	}
	return &AuditNotifier{conn: conn}
}

// ArmedChanged never fails the caller. Storage errors are logged.
func (n *AuditNotifier) ArmedChanged(id model.DeviceID, armed bool) {
	log.Info().
		Str("device", string(id)).
		Bool("armed", armed).
		Msg("Alarm arm state changed")

	datadog.Bool("alarm.armed", armed, "device:"+string(id))

	if n.conn == nil {
		return
	}

	ev := &model.ArmEvent{Device: id, Armed: armed}
	if err := db.InsertArmEvent(n.conn, ev); err != nil {
		log.Error().Err(err).Str("device", string(id)).Msg("Failed to record arm event")
		return
	}

	log.Debug().
		Str("event_id", ev.ID).
		Str("device", string(id)).
		Msg("Arm event recorded")
}
