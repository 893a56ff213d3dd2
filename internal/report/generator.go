package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
	"go.uber.org/zap"
)

// FormatDuration formats duration to a human-readable string with max 2 decimal places
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	} else if d < time.Hour {
		mins := int(d.Minutes())
		secs := d.Seconds() - float64(mins*60)
		return fmt.Sprintf("%dm%.2fs", mins, secs)
	}
	hours := int(d.Hours())
	mins := int(d.Minutes()) - hours*60
	secs := d.Seconds() - float64(hours*3600) - float64(mins*60)
	return fmt.Sprintf("%dh%dm%.2fs", hours, mins, secs)
}

// FormatSize renders a byte count with a binary unit
func FormatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Generator renders scan results to the console or a report file
type Generator struct {
	format     string
	outputFile string
	logger     *zap.Logger
	out        io.Writer
}

// NewGenerator creates a new report generator. An empty format prints to
// the console.
func NewGenerator(format, outputFile string, logger *zap.Logger) (*Generator, error) {
	switch format {
	case "", "json", "txt", "text":
	default:
		return nil, fmt.Errorf("unknown report format: %s", format)
	}
	return &Generator{
		format:     format,
		outputFile: outputFile,
		logger:     logger,
		out:        os.Stdout,
	}, nil
}

// SetOutput redirects console output
func (g *Generator) SetOutput(w io.Writer) {
	g.out = w
}

// Generate writes the report and returns its absolute path, or "" for
// console output
func (g *Generator) Generate(results *models.ScanResults) (string, error) {
	if g.format == "" {
		g.printConsole(results)
		return "", nil
	}

	outputFile := g.outputFile
	if outputFile == "" {
		timestamp := time.Now().Format("20060102-150405")
		ext := "txt"
		if g.format == "json" {
			ext = "json"
		}
		outputFile = fmt.Sprintf("PPROC-REPORT-%s.%s", timestamp, ext)
	}

	g.logger.Info("Generating report",
		zap.String("format", g.format),
		zap.String("output", outputFile))

	var err error
	switch g.format {
	case "json":
		err = g.generateJSON(results, outputFile)
	case "txt", "text":
		err = g.generateText(results, outputFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", g.format, err)
	}

	absPath, _ := filepath.Abs(outputFile)
	return absPath, nil
}
