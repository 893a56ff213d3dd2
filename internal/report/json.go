package report

import (
	"encoding/json"
	"os"

	"github.com/SethMC26/3320-antivirus-Final/pkg/models"
)

// generateJSON generates a JSON report
func (g *Generator) generateJSON(results *models.ScanResults, outputFile string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0644)
}
