package models

import "time"

// Pipeline identifiers.
const (
	PipelineLaptops      = "laptops"
	PipelineLaptopsChart = "laptops-chart"
	PipelinePublicAPIs   = "public-apis"
)

// StopReason records why a fetch loop ended.
type StopReason string

const (
	StopCap       StopReason = "cap"       // accumulator reached the record cap
	StopExhausted StopReason = "exhausted" // a page yielded no candidate nodes
	StopStatus    StopReason = "status"    // a page answered with a non-success status
	StopSingle    StopReason = "single"    // non-paginated source, one page fetched
)

// ProductRun is the accumulator of one paginated laptop scrape.
type ProductRun struct {
	Products   []Product
	Pages      int // pages fetched, including the one that stopped the loop
	Skipped    int // candidate nodes dropped for missing fields
	StopReason StopReason
	LastStatus int
}

// TableRun is the result of one table scrape.
type TableRun struct {
	Table   Table
	Tables  int // number of table elements seen
	Dropped int // rows whose cell count did not match the header count
}

// RunResult summarises one pipeline execution.
type RunResult struct {
	Pipeline   string        `json:"pipeline"`
	Records    int           `json:"records"`
	Pages      int           `json:"pages"`
	Skipped    int           `json:"skipped"`
	Dropped    int           `json:"dropped"`
	StopReason StopReason    `json:"stop_reason"`
	Outputs    []string      `json:"outputs"`
	Duration   time.Duration `json:"duration"`
}
