package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

// generateText generates a text report
func (g *Generator) generateText(results *models.ScanResults, outputFile string) error {
	return os.WriteFile(outputFile, []byte(renderText(results)), 0644)
}

func renderText(results *models.ScanResults) string {
	var sb strings.Builder

	sb.WriteString(strings.Repeat("=", 79) + "\n")
	sb.WriteString(fmt.Sprintf("  PPROC SCAN REPORT v%s\n", results.Version))
	sb.WriteString(strings.Repeat("=", 79) + "\n\n")

	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	sb.WriteString(fmt.Sprintf("Scan Path:        %s\n", results.ScanPath))
	sb.WriteString(fmt.Sprintf("Start Time:       %s\n", results.StartTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("End Time:         %s\n", results.EndTime.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Duration:         %s\n", FormatDuration(results.Duration)))
	sb.WriteString(fmt.Sprintf("Directories:      %d\n", results.TotalDirs))
	sb.WriteString(fmt.Sprintf("Total Files:      %d\n", results.TotalFiles))
	sb.WriteString(fmt.Sprintf("Scanned Files:    %d\n", results.ScannedFiles))
	sb.WriteString(fmt.Sprintf("Skipped Files:    %d\n", results.SkippedFiles))
	sb.WriteString(fmt.Sprintf("THREATS FOUND:    %d\n", results.ThreatsFound))
	if results.Cancelled {
		sb.WriteString("Status:           CANCELLED\n")
	}
	sb.WriteString("\n")

	if stats := results.Stats; stats != nil {
		sb.WriteString("DISPOSITIONS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		sb.WriteString(fmt.Sprintf("  Deleted:            %d\n", stats.Deleted))
		sb.WriteString(fmt.Sprintf("  Quarantined:        %d\n", stats.Quarantined))
		sb.WriteString(fmt.Sprintf("  Whitelisted:        %d\n", stats.Allowed))
		sb.WriteString(fmt.Sprintf("  Failed:             %d\n", stats.DispositionErrors))
		sb.WriteString("\n")
	}

	if len(results.Detections) > 0 {
		sb.WriteString("DETECTIONS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for i, d := range results.Detections {
			sb.WriteString(fmt.Sprintf("\n[%d] %s\n", i+1, d.Path))
			sb.WriteString(fmt.Sprintf("    Digest:   %s\n", d.Digest))
			action := string(d.Action)
			if action == "" {
				action = "none"
			}
			sb.WriteString(fmt.Sprintf("    Action:   %s\n", action))
			if d.Error != "" {
				sb.WriteString(fmt.Sprintf("    Error:    %s\n", d.Error))
			}
			sb.WriteString(fmt.Sprintf("    Time:     %s\n", d.Timestamp.Format("2006-01-02 15:04:05")))
		}
		sb.WriteString("\n")
	}

	if results.Stats != nil && len(results.Stats.ErrorFiles) > 0 {
		sb.WriteString("ERRORS\n")
		sb.WriteString(strings.Repeat("-", 79) + "\n")
		for _, path := range results.Stats.ErrorFiles {
			sb.WriteString("  " + path + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("STATISTICS\n")
	sb.WriteString(strings.Repeat("-", 79) + "\n")
	if results.Stats != nil {
		sb.WriteString(fmt.Sprintf("Bytes Hashed:     %s\n", FormatSize(results.Stats.TotalSize)))
		sb.WriteString(fmt.Sprintf("Files/Second:     %.2f\n", results.Stats.FilesPerSecond))
		sb.WriteString(fmt.Sprintf("Workers:          %d\n", results.Stats.WorkersUsed))
		sb.WriteString(fmt.Sprintf("Memory Used:      %s\n", FormatSize(int64(results.Stats.MemoryUsed))))
	}

	return sb.String()
}
