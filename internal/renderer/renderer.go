// Package renderer turns a metrics snapshot into the static dashboard page.
package renderer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pulseboard/pulseboard/internal/atomicfile"
	"github.com/pulseboard/pulseboard/internal/snapshot"
)

// ErrRender is returned when the snapshot or template cannot be rendered.
var ErrRender = errors.New("dashboard render failed")

// Renderer renders a snapshot through an HTML template into the artifact
// file. Output is a pure function of the snapshot and template content: all
// time data comes from the snapshot, never from the wall clock, so the
// publisher can rely on byte-identical output to detect "no change".
type Renderer struct {
	templatePath string
	artifactPath string
	log          logrus.FieldLogger
}

// templateData is the root object the dashboard template executes against.
type templateData struct {
	Metrics *snapshot.Snapshot
	Month   string
}

// New creates a renderer for the given template and artifact paths.
func New(log logrus.FieldLogger, templatePath, artifactPath string) *Renderer {
	return &Renderer{
		templatePath: templatePath,
		artifactPath: artifactPath,
		log:          log.WithField("component", "renderer"),
	}
}

// Render validates the snapshot, executes the template, and writes the
// artifact atomically. The previous artifact is untouched on any failure.
func (r *Renderer) Render(snap *snapshot.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	tmpl, err := template.New("dashboard").Funcs(templateFuncs()).ParseFiles(r.templatePath)
	if err != nil {
		return fmt.Errorf("%w: parsing template %s: %w", ErrRender, r.templatePath, err)
	}

	data := templateData{
		Metrics: snap,
		Month:   snap.CollectedAt.Format("January 2006"),
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, filepath.Base(r.templatePath), data); err != nil {
		return fmt.Errorf("%w: executing template: %w", ErrRender, err)
	}

	if err := atomicfile.WriteFile(r.artifactPath, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: writing artifact %s: %w", ErrRender, r.artifactPath, err)
	}

	r.log.WithFields(logrus.Fields{
		"artifact": r.artifactPath,
		"bytes":    buf.Len(),
	}).Info("dashboard rendered")

	return nil
}

// templateFuncs returns the helper functions available to templates. All of
// them are pure so re-rendering the same snapshot is byte-identical.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"comma": commaFormat,
		"int":   func(v float64) int64 { return int64(v) },
	}
}

// commaFormat renders a metric value with thousands separators, e.g. 2328.0
// becomes "2,328". Fractional values keep their decimals. Values outside the
// int64 range and non-finite values fall back to plain float formatting,
// since the int64 truncation below would mangle them.
func commaFormat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1<<63 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	whole := int64(v)
	s := strconv.FormatInt(whole, 10)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}

	if frac := v - float64(whole); frac != 0 {
		fracStr := strconv.FormatFloat(v, 'f', -1, 64)
		if i := strings.IndexByte(fracStr, '.'); i >= 0 {
			out += fracStr[i:]
		}
	}

	return out
}
