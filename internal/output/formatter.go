package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/drawplan/drawplan/internal/domain"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic
// formatting).
type Formatter interface {
	Format(outcome *domain.SimulationOutcome) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// builtInFormatters stores available formatters (extended incrementally).
var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	JSONFormatter{},
	CSVSummarizer{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":        "console",
	"pretty":      "console",
	"json-pretty": "json",
	"csv-summary": "csv",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// WriteFormatted runs a formatter and writes its output to a timestamped
// file with the given extension, returning the filename.
func WriteFormatted(f Formatter, outcome *domain.SimulationOutcome, ext string) (string, error) {
	data, err := f.Format(outcome)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("drawdown_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// GenerateReport renders the outcome in the requested format. Console output
// goes to stdout; file formats are written to a timestamped report file.
func GenerateReport(outcome *domain.SimulationOutcome, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return fmt.Errorf("unknown output format %q (available: %s)",
			format, strings.Join(AvailableFormatterNames(), ", "))
	}

	if f.Name() == "console" {
		data, err := f.Format(outcome)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	filename, err := WriteFormatted(f, outcome, f.Name())
	if err != nil {
		return err
	}
	fmt.Printf("Report written to %s\n", filename)
	return nil
}
