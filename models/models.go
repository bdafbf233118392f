package models

type RootCtx struct {
	LogLevel                 string
	LargeThreshold           string
	LargeThresholdBytes      uint64
	LargeThresholdOverridden bool
	Options                  string
	OptionsFile              string
	Format                   string
}

// FileEntry is one artifact as it appears in a report.
type FileEntry struct {
	Name       string  `json:"name" yaml:"name"`
	Size       uint64  `json:"size" yaml:"size"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Large      bool    `json:"large" yaml:"large"`
}

// Report is the result of one analysis. Lines holds the rendered text in
// output order; the other fields carry the same data in structured form.
type Report struct {
	Lines         []string
	Entries       []FileEntry
	TotalSize     uint64
	EstimatedGzip uint64
	Threshold     uint64
	LargeFiles    []FileEntry
	// Index in Lines of the large file warning, 0 when there is none.
	WarningLine int
}

func (r *Report) Empty() bool {
	return len(r.Entries) == 0
}
