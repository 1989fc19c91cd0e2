package pricingcasebridge

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/sdk/validation"
)

// EnqueueInput queues an analysis for the worker pool.
type EnqueueInput struct {
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
	UserPrice *int64 `json:"userPrice"`
}

func (in *EnqueueInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(strings.TrimSpace(in.Query) != "", "query", "Query wajib diisi")
	fe.Check(in.Limit == 0 || (in.Limit >= 1 && in.Limit <= pricingcase.MaxLimit), "limit", limitMessage)
	fe.Check(in.UserPrice == nil || *in.UserPrice >= 0, "userPrice", "Harga tidak boleh negatif")
	return fe.Err()
}

type QuickCheckInput struct {
	ProductName string `json:"productName"`
	UserPrice   int64  `json:"userPrice"`
}

func (in *QuickCheckInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.LenBetween(strings.TrimSpace(in.ProductName), 3, 200), "productName", "Nama produk minimal 3 karakter")
	fe.Check(in.UserPrice > 0, "userPrice", "Harga tidak valid")
	return fe.Err()
}

const limitMessage = "Limit harus antara 1 dan 50"

// Job is a queued analysis as shown to its owner.
type Job struct {
	ID               string          `json:"id"`
	Query            string          `json:"query"`
	Limit            int             `json:"limit"`
	UserPrice        *int64          `json:"userPrice"`
	Status           string          `json:"status"`
	Result           json.RawMessage `json:"result,omitempty"`
	ErrorMessage     *string         `json:"errorMessage"`
	RetryCount       int             `json:"retryCount"`
	ProcessingTimeMS *int            `json:"processingTimeMs"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type JobList struct {
	Jobs       []Job                `json:"jobs"`
	Pagination fopbridge.Pagination `json:"pagination"`
}
