package model

import "time"

// TimeRange bounds a search in UTC. Both bounds are inclusive; a nil bound
// is open.
type TimeRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterSpec is the immutable structured description of one search request.
// It is created once per request, either from free text by the query
// interpreter or directly from a structured form, and never mutated.
type FilterSpec struct {
	TimeRange *TimeRange `json:"time_range,omitempty"`

	// Exact-match categorical fields. A scalar request is a one-element list.
	Action   []string `json:"action,omitempty"`
	Protocol []string `json:"protocol,omitempty"`
	Severity []string `json:"severity,omitempty"`
	LogType  []string `json:"log_type,omitempty"`

	// Substring/regex fields.
	Hostname    string `json:"hostname,omitempty"`
	MessageID   string `json:"message_id,omitempty"`
	SrcIP       string `json:"src_ip,omitempty"`
	DstIP       string `json:"dst_ip,omitempty"`
	MessageText string `json:"message_text,omitempty"`
	FullText    string `json:"full_text,omitempty"`

	// Keywords are last-resort full-text terms, OR'd together.
	Keywords []string `json:"keywords,omitempty"`

	// Numeric fields, matched by string-normalized equality.
	SrcPort string `json:"src_port,omitempty"`
	DstPort string `json:"dst_port,omitempty"`

	// User is matched as a substring across text columns.
	User string `json:"user,omitempty"`

	CaseSensitive bool `json:"case_sensitive,omitempty"`
	UseRegex      bool `json:"use_regex,omitempty"`

	// ResultsLimit truncates the final result set; 0 means unlimited.
	ResultsLimit int `json:"results_limit,omitempty"`

	CountRequest bool `json:"count_request,omitempty"`

	// VizType is the requested chart kind; empty or "auto" defers to the
	// visualization selector.
	VizType string `json:"viz_type,omitempty"`

	// OriginalQuery echoes the free-text request when one was interpreted.
	OriginalQuery string `json:"original_query,omitempty"`
}
