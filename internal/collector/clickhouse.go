package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

// clickhouseProvider runs scalar aggregate queries against a ClickHouse
// warehouse over the native protocol. Queries must return a single Float64
// column (wrap counts in toFloat64).
type clickhouseProvider struct {
	cfg     *config.Config
	name    string
	queries map[string]string
	log     logrus.FieldLogger
}

func newClickHouseProvider(log logrus.FieldLogger, cfg *config.Config, src *config.Source) *clickhouseProvider {
	return &clickhouseProvider{
		cfg:     cfg,
		name:    src.Name,
		queries: src.Metrics,
		log:     log.WithField("component", "clickhouse_provider").WithField("source", src.Name),
	}
}

func (p *clickhouseProvider) Name() string { return p.name }

// connect establishes a native-protocol connection to ClickHouse.
func (p *clickhouseProvider) connect(ctx context.Context) (driver.Conn, error) {
	options := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", p.cfg.ClickhouseHost, p.cfg.ClickhouseNativePort)},
		Auth: clickhouse.Auth{
			Database: p.cfg.ClickhouseDatabase,
			Username: p.cfg.ClickhouseUsername,
			Password: p.cfg.ClickhousePassword,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:  time.Second * 30,
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening connection: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("pinging ClickHouse: %w", err)
	}

	return conn, nil
}

func (p *clickhouseProvider) Collect(ctx context.Context) (snapshot.Group, error) {
	conn, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			p.log.WithError(err).Warn("failed to close connection")
		}
	}()

	group := make(snapshot.Group, len(p.queries))

	for metric, query := range p.queries {
		var value float64
		if err := conn.QueryRow(ctx, query).Scan(&value); err != nil {
			return nil, fmt.Errorf("querying metric %s: %w", metric, err)
		}

		p.log.WithFields(logrus.Fields{"metric": metric, "value": value}).Debug("metric queried")
		group[metric] = value
	}

	return group, nil
}
