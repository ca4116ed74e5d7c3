package history

import (
	"time"

	"filelist-diff/core/report"
)

// Status is the outcome of a run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one recorded comparison.
type Run struct {
	ID         string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	StartedAt  time.Time `gorm:"column:started_at;index" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" json:"finished_at"`
	OldSource  string    `gorm:"column:old_source;size:1024" json:"old_source"`
	NewSource  string    `gorm:"column:new_source;size:1024" json:"new_source"`
	OutputDir  string    `gorm:"column:output_dir;size:1024" json:"output_dir"`
	RoundSize  int       `gorm:"column:round_size" json:"round_size"`

	MissingFiles    int    `gorm:"column:missing_files" json:"missing_files"`
	MissingBytes    uint64 `gorm:"column:missing_bytes" json:"missing_bytes"`
	NewFiles        int    `gorm:"column:new_files" json:"new_files"`
	NewBytes        uint64 `gorm:"column:new_bytes" json:"new_bytes"`
	ChangedFiles    int    `gorm:"column:changed_files" json:"changed_files"`
	ChangedOldBytes uint64 `gorm:"column:changed_old_bytes" json:"changed_old_bytes"`
	ChangedNewBytes uint64 `gorm:"column:changed_new_bytes" json:"changed_new_bytes"`

	Status Status `gorm:"column:status;size:16" json:"status"`
	Error  string `gorm:"column:error;type:text" json:"error,omitempty"`
}

// TableName overrides the table name.
func (Run) TableName() string {
	return "comparison_runs"
}

// SetSummary copies the figures of s into the run.
func (r *Run) SetSummary(s report.Summary) {
	r.MissingFiles = s.Missing.Files
	r.MissingBytes = s.Missing.Bytes
	r.NewFiles = s.New.Files
	r.NewBytes = s.New.Bytes
	r.ChangedFiles = s.Changed.Files
	r.ChangedOldBytes = s.Changed.OldBytes
	r.ChangedNewBytes = s.Changed.NewBytes
}

// Summary rebuilds the report summary stored in the run.
func (r Run) Summary() report.Summary {
	return report.Summary{
		Missing: report.Totals{Files: r.MissingFiles, Bytes: r.MissingBytes},
		New:     report.Totals{Files: r.NewFiles, Bytes: r.NewBytes},
		Changed: report.ChangedTotals{
			Files:    r.ChangedFiles,
			OldBytes: r.ChangedOldBytes,
			NewBytes: r.ChangedNewBytes,
		},
	}
}
