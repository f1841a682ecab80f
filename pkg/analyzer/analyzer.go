// Package analyzer orchestrates one analysis run: pick a format normalizer by
// file extension, normalize the file into a canonical graph, aggregate
// statistics, evaluate the advisory rules and assemble the report document.
package analyzer

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/modelaudit/modelaudit/internal/formats/keras"
	"github.com/modelaudit/modelaudit/pkg/advisor"
	"github.com/modelaudit/modelaudit/pkg/report"
	"github.com/modelaudit/modelaudit/pkg/stats"
)

// Analyze runs the full pipeline on one model file and returns the assembled
// document. Each run is independent; no state is shared between invocations.
func Analyze(path string) (report.Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	n, ok := Lookup(ext)
	if !ok {
		return nil, &UnsupportedFormatError{Path: path, Ext: ext}
	}

	logrus.WithFields(logrus.Fields{"file": path, "format": n.Format()}).Debug("normalizing model file")

	m, err := n.Normalize(path)
	if err != nil {
		if errors.Is(err, keras.ErrHDF5Runtime) {
			return nil, &UnsupportedFormatError{Path: path, Ext: ext, Reason: err.Error()}
		}
		return nil, &FormatError{Format: n.Format(), Path: path, Err: err}
	}

	summary := stats.Aggregate(m)
	recommendations := advisor.Recommend(summary)

	logrus.WithFields(logrus.Fields{
		"layers":          summary.LayerCount,
		"total_params":    summary.TotalParams,
		"recommendations": len(recommendations),
	}).Debug("analysis complete")

	return report.Assemble(m, recommendations), nil
}

// Run analyzes a model file and persists the report. The output file is only
// written after the whole analysis succeeds, so a failed run never produces a
// partial report.
func Run(path, outputPath string) (report.Document, error) {
	doc, err := Analyze(path)
	if err != nil {
		return nil, err
	}
	if err := report.Write(doc, outputPath); err != nil {
		return nil, err
	}
	return doc, nil
}
