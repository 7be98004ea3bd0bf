package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"ntp-stats/internal/models"
)

// ErrNoData is returned when none of the values can be plotted
var ErrNoData = errors.New("no numeric values to chart")

// Bar is one time source's value for the charted field
type Bar struct {
	Label string
	Value models.Value
}

// Generator writes inspection charts next to the poller output
type Generator struct {
	outputDir string
}

// NewGenerator creates a new chart generator writing into outputDir
func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// GenerateChart renders bars to <outputDir>/<tool>_<key>.png and returns the path
func (g *Generator) GenerateChart(tool, key string, bars []Bar) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(g.outputDir, fmt.Sprintf("%s_%s.png", sanitizeFilename(tool), sanitizeFilename(key)))
	file, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := renderBarChart(file, fmt.Sprintf("%s %s", tool, key), bars); err != nil {
		os.Remove(filename)
		return "", err
	}

	log.Debugf("Chart written to %s", filename)
	return filename, nil
}
