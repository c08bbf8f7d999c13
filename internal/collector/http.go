package collector

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

var (
	errUnexpectedStatus = errors.New("unexpected HTTP status")
	errEmptyCSV         = errors.New("CSV response has no data rows")
	errFieldNotFound    = errors.New("field not found in JSON response")
	errFieldNotNumeric  = errors.New("field is not numeric")
)

// Cap on response bodies. The endpoints we query return single aggregate
// values, so anything larger is a misconfigured query.
const maxResponseBytes = 1 << 20

// csvProvider queries HTTP endpoints that answer with a small CSV document,
// typically a single-value aggregate like count(*). The metric value is the
// first field of the first data row.
type csvProvider struct {
	name    string
	queries map[string]string
	client  *http.Client
	log     logrus.FieldLogger
}

func newCSVProvider(log logrus.FieldLogger, src *config.Source, client *http.Client) *csvProvider {
	return &csvProvider{
		name:    src.Name,
		queries: src.Metrics,
		client:  client,
		log:     log.WithField("component", "csv_provider").WithField("source", src.Name),
	}
}

func (p *csvProvider) Name() string { return p.name }

func (p *csvProvider) Collect(ctx context.Context) (snapshot.Group, error) {
	group := make(snapshot.Group, len(p.queries))

	for metric, url := range p.queries {
		body, err := fetch(ctx, p.client, url)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", metric, err)
		}

		value, err := parseCSVValue(body)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", metric, err)
		}

		p.log.WithFields(logrus.Fields{"metric": metric, "value": value}).Debug("metric fetched")
		group[metric] = value
	}

	return group, nil
}

// parseCSVValue extracts the first field of the first data row.
func parseCSVValue(body []byte) (float64, error) {
	reader := csv.NewReader(strings.NewReader(string(body)))

	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("parsing CSV: %w", err)
	}

	if len(records) < 2 || len(records[1]) == 0 {
		return 0, errEmptyCSV
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(records[1][0]), 64)
	if err != nil {
		return 0, fmt.Errorf("parsing CSV value %q: %w", records[1][0], err)
	}

	return value, nil
}

// jsonProvider queries HTTP endpoints that answer with a JSON document and
// extracts one numeric field, addressed by a dotted path, per metric URL.
type jsonProvider struct {
	name    string
	field   string
	queries map[string]string
	client  *http.Client
	log     logrus.FieldLogger
}

func newJSONProvider(log logrus.FieldLogger, src *config.Source, client *http.Client) *jsonProvider {
	return &jsonProvider{
		name:    src.Name,
		field:   src.Field,
		queries: src.Metrics,
		client:  client,
		log:     log.WithField("component", "json_provider").WithField("source", src.Name),
	}
}

func (p *jsonProvider) Name() string { return p.name }

func (p *jsonProvider) Collect(ctx context.Context) (snapshot.Group, error) {
	group := make(snapshot.Group, len(p.queries))

	for metric, url := range p.queries {
		body, err := fetch(ctx, p.client, url)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", metric, err)
		}

		value, err := extractJSONField(body, p.field)
		if err != nil {
			return nil, fmt.Errorf("metric %s: %w", metric, err)
		}

		p.log.WithFields(logrus.Fields{"metric": metric, "value": value}).Debug("metric fetched")
		group[metric] = value
	}

	return group, nil
}

// extractJSONField walks a dotted path through nested JSON objects and
// returns the numeric value at the end of it.
func extractJSONField(body []byte, path string) (float64, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return 0, fmt.Errorf("parsing JSON: %w", err)
	}

	parts := strings.Split(path, ".")
	current := any(doc)

	for _, part := range parts {
		obj, ok := current.(map[string]any)
		if !ok {
			return 0, fmt.Errorf("%w: %s", errFieldNotFound, path)
		}

		current, ok = obj[part]
		if !ok {
			return 0, fmt.Errorf("%w: %s", errFieldNotFound, path)
		}
	}

	value, ok := current.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errFieldNotNumeric, path)
	}

	return value, nil
}

// fetch performs a GET and returns the response body.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s from %s", errUnexpectedStatus, resp.Status, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	return body, nil
}
