package models

import "time"

// Outcome is the tagged result of scanning one file
type Outcome int

const (
	OutcomeClean    Outcome = iota // No blocklist matched
	OutcomeSkipped                 // Allowlisted, already scanned this run, or not a regular file
	OutcomeDisposed                // Matched and a disposition ran to completion
	OutcomeError                   // Could not be scanned, or the disposition failed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeClean:
		return "clean"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeDisposed:
		return "disposed"
	default:
		return "error"
	}
}

// FileResult is what scanning a single file produced
type FileResult struct {
	Path      string
	Size      int64
	Outcome   Outcome
	Detection *Detection // Set when a blocklist matched
	Err       error
}

// ScanResults contains the summary of a scan run
type ScanResults struct {
	StartTime    time.Time     `json:"start_time"`
	EndTime      time.Time     `json:"end_time"`
	Duration     time.Duration `json:"duration"`
	ScanPath     string        `json:"scan_path"`
	TotalFiles   int           `json:"total_files"`
	TotalDirs    int           `json:"total_dirs"`
	ScannedFiles int           `json:"scanned_files"`
	SkippedFiles int           `json:"skipped_files"`
	ThreatsFound int           `json:"threats_found"`
	Cancelled    bool          `json:"cancelled,omitempty"`

	Detections []*Detection `json:"detections"`

	Stats *ScanStatistics `json:"statistics"`

	Version string `json:"version"`

	// Report path
	ReportPath string `json:"report_path,omitempty"`
}

// ScanStatistics contains detailed scan statistics
type ScanStatistics struct {
	TotalSize int64 `json:"total_size"`

	Deleted     int `json:"deleted"`
	Quarantined int `json:"quarantined"`
	Allowed     int `json:"allowed"`

	// Errors
	ReadErrors        int      `json:"read_errors"`
	DispositionErrors int      `json:"disposition_errors"`
	ErrorFiles        []string `json:"error_files,omitempty"`

	// Performance
	FilesPerSecond float64 `json:"files_per_second"`
	MemoryUsed     uint64  `json:"memory_used_bytes"`
	WorkersUsed    int     `json:"workers_used"`
}

// NewScanResults returns an initialized result set for the given path
func NewScanResults(path string) *ScanResults {
	return &ScanResults{
		StartTime: time.Now(),
		ScanPath:  path,
		Stats:     &ScanStatistics{},
	}
}

// AddFileResult folds a single file result into the summary
func (r *ScanResults) AddFileResult(fr *FileResult) {
	r.TotalFiles++
	switch fr.Outcome {
	case OutcomeClean:
		r.ScannedFiles++
		r.Stats.TotalSize += fr.Size
	case OutcomeSkipped:
		r.SkippedFiles++
	case OutcomeDisposed:
		r.ScannedFiles++
		r.Stats.TotalSize += fr.Size
	case OutcomeError:
		if fr.Detection == nil {
			r.Stats.ReadErrors++
		} else {
			r.ScannedFiles++
			r.Stats.DispositionErrors++
		}
		r.Stats.ErrorFiles = append(r.Stats.ErrorFiles, fr.Path)
	}

	if fr.Detection != nil {
		r.AddDetection(fr.Detection)
	}
}

// AddDetection records a detection and updates the per-action counters
func (r *ScanResults) AddDetection(d *Detection) {
	r.Detections = append(r.Detections, d)
	r.ThreatsFound++

	if r.Stats == nil {
		r.Stats = &ScanStatistics{}
	}
	if d.Error != "" {
		return
	}
	switch d.Action {
	case ActionDelete:
		r.Stats.Deleted++
	case ActionQuarantine:
		r.Stats.Quarantined++
	case ActionAllow:
		r.Stats.Allowed++
	}
}

// Finish stamps the end time and derived statistics
func (r *ScanResults) Finish() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
	if secs := r.Duration.Seconds(); secs > 0 {
		r.Stats.FilesPerSecond = float64(r.ScannedFiles) / secs
	}
}
