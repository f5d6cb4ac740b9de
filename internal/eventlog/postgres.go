package eventlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/openrwa/fracshare/internal/domain"
)

// eventsMigrations holds the schema for the durable event projection.
// Embedded so the binary carries its own migrations.
var eventsMigrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "001_create_events",
			Up: []string{`
CREATE TABLE IF NOT EXISTS events (
    event_id    UUID PRIMARY KEY,
    event_name  TEXT        NOT NULL,
    asset_id    BIGINT      NOT NULL,
    payload     JSONB       NOT NULL,
    recorded_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_asset ON events (asset_id, recorded_at);`},
			Down: []string{`DROP TABLE IF EXISTS events;`},
		},
	},
}

// PostgresLog is an event sink that appends every published event to a
// Postgres table as a JSON payload. It gives the ledger's event stream a
// durable projection for downstream indexers; it is never read back by the
// core.
type PostgresLog struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresLog connects to Postgres, applies migrations, and returns
// the sink.
func NewPostgresLog(dsn string, logger *slog.Logger) (*PostgresLog, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	n, err := migrate.Exec(db.DB, "postgres", eventsMigrations, migrate.Up)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply event log migrations: %w", err)
	}
	if n > 0 {
		logger.Info("event log migrations applied", slog.Int("count", n))
	}

	return &PostgresLog{db: db, logger: logger}, nil
}

// Publish appends the event. Sink writes are best-effort: a failed insert
// is logged and dropped rather than failing the ledger operation that
// produced it. The in-memory log remains the authoritative in-process view.
func (l *PostgresLog) Publish(e domain.Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		l.logger.Error("event payload marshal failed",
			slog.String("event", e.Name()),
			slog.String("error", err.Error()),
		)
		return
	}

	_, err = l.db.Exec(
		`INSERT INTO events (event_id, event_name, asset_id, payload, recorded_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), e.Name(), eventAssetID(e), payload, time.Now().UTC(),
	)
	if err != nil {
		l.logger.Error("event insert failed",
			slog.String("event", e.Name()),
			slog.String("error", err.Error()),
		)
	}
}

// Close releases the database connection.
func (l *PostgresLog) Close() error {
	return l.db.Close()
}
