package engine

// 📊 FileOutcome records one successfully applied (or previewed) entry.
// Target is empty for deletions.
type FileOutcome struct {
	Source   string `json:"source"`
	Target   string `json:"target,omitempty"`
	BackedUp bool   `json:"backed_up"`
}

// ⚠️ FileError records one per-file failure. The batch continues past it.
type FileError struct {
	Source string `json:"source"`
	Reason string `json:"reason"`
}

// 📦 Result is the aggregate outcome of one invocation. It is created
// fresh per run, handed back to the caller for display or scripting, and
// never persisted by the engine.
type Result struct {
	Success        bool          `json:"success"`
	Message        string        `json:"message"`
	DryRun         bool          `json:"dry_run"`
	TotalFiles     int           `json:"total_files"`
	ProcessedFiles int           `json:"processed_files"`
	Errors         int           `json:"errors"`
	Details        []FileOutcome `json:"details"`
	ErrorDetails   []FileError   `json:"error_details,omitempty"`
}
