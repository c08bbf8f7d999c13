package collector

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	// Registers the cgo-free "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

// sqliteProvider runs scalar SQL queries against a local SQLite database,
// such as a publications archive maintained by a separate tool. Each query
// must return a single numeric column.
type sqliteProvider struct {
	name     string
	database string
	queries  map[string]string
	log      logrus.FieldLogger
}

func newSQLiteProvider(log logrus.FieldLogger, src *config.Source) *sqliteProvider {
	return &sqliteProvider{
		name:     src.Name,
		database: src.Database,
		queries:  src.Metrics,
		log:      log.WithField("component", "sqlite_provider").WithField("source", src.Name),
	}
}

func (p *sqliteProvider) Name() string { return p.name }

func (p *sqliteProvider) Collect(ctx context.Context) (snapshot.Group, error) {
	db, err := sql.Open("sqlite", p.database)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", p.database, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			p.log.WithError(err).Warn("failed to close database")
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database %s: %w", p.database, err)
	}

	group := make(snapshot.Group, len(p.queries))

	for metric, query := range p.queries {
		var value float64
		if err := db.QueryRowContext(ctx, query).Scan(&value); err != nil {
			return nil, fmt.Errorf("querying metric %s: %w", metric, err)
		}

		p.log.WithFields(logrus.Fields{"metric": metric, "value": value}).Debug("metric queried")
		group[metric] = value
	}

	return group, nil
}
