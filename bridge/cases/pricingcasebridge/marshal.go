package pricingcasebridge

import "github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"

func marshalJob(a priceanalysesrepo.PriceAnalysis) Job {
	return Job{
		ID:               a.AnalysisID,
		Query:            a.Query,
		Limit:            a.ResultLimit,
		UserPrice:        a.UserPrice,
		Status:           a.ProcessingStatus,
		Result:           a.Result,
		ErrorMessage:     a.ErrorMessage,
		RetryCount:       a.RetryCount,
		ProcessingTimeMS: a.ProcessingTimeMS,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func marshalJobs(as []priceanalysesrepo.PriceAnalysis) []Job {
	out := make([]Job, len(as))
	for i, a := range as {
		out[i] = marshalJob(a)
	}
	return out
}

// positiveOrNil drops prices that cannot be compared against the market.
func positiveOrNil(p *int64) *int64 {
	if p == nil || *p <= 0 {
		return nil
	}
	return p
}
