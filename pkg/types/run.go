// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RunStatus records how a pipeline run ended.
type RunStatus string

const (
	// RunCompleted means a report was written.
	RunCompleted RunStatus = "completed"

	// RunEmpty means research or generation produced nothing and the run
	// stopped before writing a report.
	RunEmpty RunStatus = "empty"

	// RunFailed means an infrastructure error (report write, archive)
	// stopped the run.
	RunFailed RunStatus = "failed"
)

// RunRecord summarizes one pipeline run. The report emitter writes it as a
// YAML snapshot and the archive stores it for the history command.
type RunRecord struct {
	// ID is the archive row identifier. Zero until archived.
	ID int64 `json:"id,omitempty" yaml:"id,omitempty"`

	// Subject is the company or industry name the run researched.
	Subject string `json:"subject" yaml:"subject"`

	// Status is the terminal state of the run.
	Status RunStatus `json:"status" yaml:"status"`

	// StartedAt is when the collector began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	// CompletedAt is when the last stage returned.
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`

	// Documents is the number of research documents collected.
	Documents int `json:"documents" yaml:"documents"`

	// Generated is the number of use cases the generator parsed.
	Generated int `json:"generated" yaml:"generated"`

	// BackendErrors lists resource backend failures as "backend: error".
	BackendErrors []string `json:"backend_errors,omitempty" yaml:"backend_errors,omitempty"`

	// ReportPath is the markdown report file, empty when none was written.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`

	// UseCases is the final ranked list.
	UseCases []UseCase `json:"use_cases,omitempty" yaml:"use_cases,omitempty"`
}

// Duration returns the wall time of the run.
func (r RunRecord) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
