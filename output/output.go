// Package output renders analysis reports for the terminal or for other
// tools.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"bundlesize/analyzer"
	"bundlesize/models"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (valid: text, json, yaml)", s)
	}
}

// summary is the machine-readable form of a report.
type summary struct {
	TotalFiles       int                `json:"total_files" yaml:"total_files"`
	TotalSize        uint64             `json:"total_size" yaml:"total_size"`
	EstimatedGzip    uint64             `json:"estimated_gzip" yaml:"estimated_gzip"`
	WarningThreshold uint64             `json:"warning_threshold" yaml:"warning_threshold"`
	Files            []models.FileEntry `json:"files" yaml:"files"`
	LargeFiles       []models.FileEntry `json:"large_files" yaml:"large_files"`
}

func newSummary(report *models.Report) summary {
	files, large := report.Entries, report.LargeFiles
	if files == nil {
		files = []models.FileEntry{}
	}
	if large == nil {
		large = []models.FileEntry{}
	}
	return summary{
		TotalFiles:       len(report.Entries),
		TotalSize:        report.TotalSize,
		EstimatedGzip:    report.EstimatedGzip,
		WarningThreshold: report.Threshold,
		Files:            files,
		LargeFiles:       large,
	}
}

// Write renders report to w in the given format.
func Write(w io.Writer, format Format, report *models.Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newSummary(report))
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(newSummary(report)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return Text(w, report)
	}
}

// Text prints the report lines, highlighting large files the same way the
// sizes that exceed a threshold are flagged elsewhere in the tool.
func Text(w io.Writer, report *models.Report) error {
	highlight := make(map[int]bool, len(report.LargeFiles)+1)
	for i, entry := range report.Entries {
		if entry.Large {
			highlight[analyzer.FirstEntryLine+i] = true
		}
	}
	if report.WarningLine > 0 {
		highlight[report.WarningLine] = true
	}

	warn := color.New(color.BgRed)
	for i, line := range report.Lines {
		var err error
		if highlight[i] {
			_, err = warn.Fprintln(w, line)
		} else {
			_, err = fmt.Fprintln(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
