package output

import (
	"encoding/json"

	"github.com/drawplan/drawplan/internal/domain"
)

// JSONFormatter serializes the simulation outcome as pretty-printed JSON.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(outcome *domain.SimulationOutcome) ([]byte, error) {
	return json.MarshalIndent(outcome, "", "  ")
}
