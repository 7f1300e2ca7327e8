package model

import "time"

// VizKind names a visualization shape.
type VizKind string

const (
	VizTrend        VizKind = "trend"
	VizPie          VizKind = "pie"
	VizBar          VizKind = "bar"
	VizHeatmap      VizKind = "heatmap"
	VizSummary      VizKind = "summary"
	VizTable        VizKind = "table"
	VizInsufficient VizKind = "insufficient"
)

// VisualizationSpec is a chart kind plus a bounded, renderer-agnostic
// payload. Payload is one of the *Payload types in this package.
type VisualizationSpec struct {
	Kind    VizKind `json:"kind"`
	Payload any     `json:"payload"`
}

// TrendPoint is one time-bucketed count.
type TrendPoint struct {
	Time  time.Time `json:"time"`
	Count int       `json:"count"`
}

// TrendSeries is a named point sequence, used when a trend is split by a
// categorical column.
type TrendSeries struct {
	Name   string       `json:"name"`
	Points []TrendPoint `json:"points"`
}

// TrendPayload carries bucketed counts over time.
type TrendPayload struct {
	Bucket string        `json:"bucket"` // minute, hour, 4-hour, day, week
	Points []TrendPoint  `json:"points"`
	Series []TrendSeries `json:"series,omitempty"`
}

// PiePayload carries label/value slices for one categorical column.
type PiePayload struct {
	Column string       `json:"column"`
	Slices []ValueCount `json:"slices"`
}

// BarPayload carries label/value bars for one categorical column.
type BarPayload struct {
	Column string       `json:"column"`
	Bars   []ValueCount `json:"bars"`
}

// HeatmapPayload is a labeled 2D count matrix (rows x columns).
type HeatmapPayload struct {
	RowLabels    []string `json:"row_labels"`
	ColumnLabels []string `json:"column_labels"`
	Cells        [][]int  `json:"cells"`
}

// TablePayload carries bounded row records for tabular display.
type TablePayload struct {
	Columns []string         `json:"columns"`
	Records []map[string]any `json:"records"`
}

// Panel is one independent dashboard tile.
type Panel struct {
	Title string            `json:"title"`
	Spec  VisualizationSpec `json:"spec"`
}

// SummaryPayload is the dashboard payload: up to four independent panels.
type SummaryPayload struct {
	Panels []Panel `json:"panels"`
}

// InsufficientPayload explains why no chart could be built, carrying a
// bounded set of raw records so callers can still show something.
type InsufficientPayload struct {
	Reason  string           `json:"reason"`
	Records []map[string]any `json:"records,omitempty"`
}
