package analyzer

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"bundlesize/artifacts"
	"bundlesize/models"
)

const (
	Name = "farm-bundle-size-analyzer"

	// Fixed ratio used to estimate the gzipped size of the bundle.
	gzipRatio = 0.35

	emptyMessage   = "No resources found in the bundle"
	largeMarker    = " [LARGE FILE]"
	closingAdvice  = "   Consider code splitting or lazy loading for these files."
	titleSeparator = "============================================"
	blockSeparator = "--------------------------------------------"

	// Index of the first file line in a non-empty report.
	FirstEntryLine = 2
)

type Analyzer struct {
	config Config
	out    io.Writer
}

// New builds an Analyzer from an options payload. A payload that cannot be
// parsed is logged and replaced by the default configuration.
func New(options string) *Analyzer {
	cfg, err := ParseConfig(options)
	if err != nil {
		log.Debugf("Using default analyzer options: %s", err)
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) *Analyzer {
	return &Analyzer{config: cfg, out: os.Stdout}
}

// SetOutput redirects the text report written by OnBuildComplete.
func (a *Analyzer) SetOutput(w io.Writer) {
	a.out = w
}

func (a *Analyzer) Config() Config {
	return a.config
}

func (a *Analyzer) Name() string {
	return Name
}

// OnBuildComplete takes a single snapshot of src, analyzes it and writes the
// text report to the analyzer's output.
func (a *Analyzer) OnBuildComplete(src artifacts.Source) (*models.Report, error) {
	report := a.Analyze(src.Snapshot())
	for _, line := range report.Lines {
		if _, err := fmt.Fprintln(a.out, line); err != nil {
			return report, fmt.Errorf("writing report: %w", err)
		}
	}
	return report, nil
}

// Analyze ranks the artifacts in set by size and renders the report. The set
// is only read.
func (a *Analyzer) Analyze(set map[string]uint64) *models.Report {
	report := &models.Report{Threshold: a.config.WarningThreshold}
	if len(set) == 0 {
		report.Lines = []string{emptyMessage}
		return report
	}

	var total uint64
	entries := make([]models.FileEntry, 0, len(set))
	for name, size := range set {
		total += size
		entries = append(entries, models.FileEntry{Name: name, Size: size})
	}
	log.Debugf("Analyzing %d artifacts (%s)", len(entries), humanize.IBytes(total))

	// Largest first, ties by name so the output does not depend on map order
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Name < entries[j].Name
	})

	lines := []string{"\nFarm Bundle Size Analysis", titleSeparator}
	for i := range entries {
		entry := &entries[i]
		if total > 0 {
			entry.Percentage = float64(entry.Size) / float64(total) * 100
		}
		entry.Large = entry.Size > a.config.WarningThreshold

		line := fmt.Sprintf("%s: %s (%.1f%%)", entry.Name, FormatSize(entry.Size), entry.Percentage)
		if entry.Large {
			line += largeMarker
			report.LargeFiles = append(report.LargeFiles, *entry)
			log.Tracef("%s exceeds the %s threshold", entry.Name, humanize.IBytes(a.config.WarningThreshold))
		}
		lines = append(lines, line)
	}

	report.Entries = entries
	report.TotalSize = total
	report.EstimatedGzip = EstimateGzip(total)

	lines = append(lines,
		"\nSummary",
		blockSeparator,
		fmt.Sprintf("Total files: %d", len(entries)),
		fmt.Sprintf("Total size: %s", FormatSize(total)),
		fmt.Sprintf("Estimated gzipped: ~%s", FormatSize(report.EstimatedGzip)),
	)

	if len(report.LargeFiles) > 0 && a.config.ShowSuggestions {
		report.WarningLine = len(lines) + 2
		lines = append(lines,
			"\nOptimization Suggestions",
			blockSeparator,
			fmt.Sprintf("WARNING: %d large files detected (> %s)", len(report.LargeFiles), FormatSize(a.config.WarningThreshold)),
		)
		for _, large := range report.LargeFiles {
			lines = append(lines, fmt.Sprintf("   - %s: %s", large.Name, FormatSize(large.Size)))
		}
		lines = append(lines, closingAdvice)
	}

	report.Lines = lines
	return report
}

// EstimateGzip approximates the compressed size of total bytes.
func EstimateGzip(total uint64) uint64 {
	return uint64(math.Round(float64(total) * gzipRatio))
}
