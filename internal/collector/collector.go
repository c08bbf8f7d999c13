// Package collector gathers metric values from configured sources and
// assembles them into a snapshot.
package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

// ErrSourceUnavailable is returned when a required metric source cannot be
// reached or returns unusable data.
var ErrSourceUnavailable = errors.New("metric source unavailable")

const httpRequestTimeout = 30 * time.Second

// Provider produces one named group of metric values.
type Provider interface {
	Name() string
	Collect(ctx context.Context) (snapshot.Group, error)
}

// Collector runs all providers and writes the resulting snapshot.
type Collector struct {
	description  string
	snapshotPath string
	providers    []Provider
	now          func() time.Time
	log          logrus.FieldLogger
}

// New builds a collector with providers constructed from the source
// definitions file.
func New(log logrus.FieldLogger, cfg *config.Config, defs *config.Sources) (*Collector, error) {
	httpClient := &http.Client{Timeout: httpRequestTimeout}

	providers := make([]Provider, 0, len(defs.Sources))
	for _, src := range defs.Sources {
		p, err := buildProvider(log, cfg, src, httpClient)
		if err != nil {
			return nil, fmt.Errorf("building provider %s: %w", src.Name, err)
		}
		providers = append(providers, p)
	}

	return &Collector{
		description:  defs.Description,
		snapshotPath: cfg.SnapshotPath,
		providers:    providers,
		now:          time.Now,
		log:          log.WithField("component", "collector"),
	}, nil
}

// buildProvider maps a source definition to its provider implementation.
func buildProvider(log logrus.FieldLogger, cfg *config.Config, src *config.Source, httpClient *http.Client) (Provider, error) {
	switch src.Type {
	case config.SourceTypeHTTPCSV:
		return newCSVProvider(log, src, httpClient), nil
	case config.SourceTypeHTTPJSON:
		return newJSONProvider(log, src, httpClient), nil
	case config.SourceTypeSQLite:
		return newSQLiteProvider(log, src), nil
	case config.SourceTypeClickHouse:
		return newClickHouseProvider(log, cfg, src), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}

// Collect gathers every provider's metrics, fails fast if any source is
// unavailable, and writes the snapshot atomically. On failure the existing
// snapshot file is left untouched.
func (c *Collector) Collect(ctx context.Context) (*snapshot.Snapshot, error) {
	c.log.WithField("sources", len(c.providers)).Info("collecting metrics")

	groups := make([]snapshot.Group, len(c.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range c.providers {
		g.Go(func() error {
			start := time.Now()

			group, err := p.Collect(gctx)
			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, p.Name(), err)
			}

			c.log.WithFields(logrus.Fields{
				"source":   p.Name(),
				"metrics":  len(group),
				"duration": time.Since(start),
			}).Debug("source collected")

			groups[i] = group

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &snapshot.Snapshot{
		Description: c.description,
		CollectedAt: c.now().UTC().Truncate(time.Second),
		Groups:      make(map[string]snapshot.Group, len(c.providers)),
	}
	for i, p := range c.providers {
		snap.Groups[p.Name()] = groups[i]
	}

	if err := snap.Write(c.snapshotPath); err != nil {
		return nil, err
	}

	c.log.WithField("path", c.snapshotPath).Info("snapshot written")

	return snap, nil
}
