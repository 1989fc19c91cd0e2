package priceanalysesrepo

import (
	"encoding/json"
	"time"
)

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// PriceAnalysis is a queued market price analysis. Result holds the
// serialized analysis once the job completes.
type PriceAnalysis struct {
	AnalysisID       string          `db:"analysis_id"`
	UserID           string          `db:"user_id"`
	Query            string          `db:"query"`
	ResultLimit      int             `db:"result_limit"`
	UserPrice        *int64          `db:"user_price"`
	ProcessingStatus string          `db:"processing_status"`
	Result           json.RawMessage `db:"result"`
	ErrorMessage     *string         `db:"error_message"`
	RetryCount       int             `db:"retry_count"`
	ProcessingTimeMS *int            `db:"processing_time_ms"`
	WorkerID         *string         `db:"worker_id"`
	CheckedOutAt     *time.Time      `db:"checked_out_at"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// GetID lets a PriceAnalysis travel through the worker pool.
func (p PriceAnalysis) GetID() string {
	return p.AnalysisID
}

// Done reports whether the job reached a terminal status.
func (p PriceAnalysis) Done() bool {
	return p.ProcessingStatus == StatusCompleted || p.ProcessingStatus == StatusFailed
}

type CreatePriceAnalysis struct {
	UserID      string
	Query       string
	ResultLimit int
	UserPrice   *int64
}
