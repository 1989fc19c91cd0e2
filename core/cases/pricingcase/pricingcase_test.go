package pricingcase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/infrastructure/llm"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/infrastructure/workers"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	products map[scraper.Source][]scraper.Product
	fail     map[scraper.Source]bool

	mu      sync.Mutex
	queries []string
}

func (f *fakeSource) Search(_ context.Context, src scraper.Source, query string, limit int) ([]scraper.Product, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.fail[src] {
		return nil, errors.New(string(src) + " down")
	}
	out := f.products[src]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeLLM struct {
	answer string
	err    error

	mu       sync.Mutex
	requests []llm.Request
}

func (f *fakeLLM) Generate(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.answer, f.err
}

func listing(name, price string) scraper.Product {
	return scraper.Product{Name: name, Price: price}
}

func market() *fakeSource {
	return &fakeSource{
		products: map[scraper.Source][]scraper.Product{
			scraper.Tokopedia: {listing("A", "Rp100.000"), listing("B", "Rp 200.000"), listing("rusak", "Hubungi penjual")},
			scraper.Blibli:    {listing("C", "rp.300.000"), listing("D", "Rp400.000")},
		},
		fail: map[scraper.Source]bool{},
	}
}

func TestCalculateStats(t *testing.T) {
	tests := []struct {
		name   string
		prices []int64
		want   Statistics
	}{
		{name: "empty", want: Statistics{}},
		{name: "odd", prices: []int64{300, 100, 200}, want: Statistics{Min: 100, Max: 300, Average: 200, Median: 200, TotalProducts: 3}},
		{name: "even rounds", prices: []int64{1, 2}, want: Statistics{Min: 1, Max: 2, Average: 2, Median: 2, TotalProducts: 2}},
		{name: "even", prices: []int64{400, 100, 300, 200}, want: Statistics{Min: 100, Max: 400, Average: 250, Median: 250, TotalProducts: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateStats(tt.prices))
		})
	}
}

func TestParseAnalysis(t *testing.T) {
	stats := Statistics{Min: 100000, Max: 300000, Average: 200000, Median: 180000}

	text := `RECOMMENDATION: Pasang harga sedikit di bawah median.
INSIGHTS:
- Pasar sangat kompetitif
- Penjual Jakarta mendominasi
Harga stabil
SUGGESTED_PRICE: Rp175.000`
	a := parseAnalysis(text, stats)
	assert.Equal(t, "Pasang harga sedikit di bawah median.", a.Recommendation)
	assert.Equal(t, []string{"Pasar sangat kompetitif", "Penjual Jakarta mendominasi", "Harga stabil"}, a.Insights)
	assert.EqualValues(t, 175000, a.SuggestedPrice)

	a = parseAnalysis("RECOMMENDATION:\nNext line recommendation\n", stats)
	assert.Equal(t, "Next line recommendation", a.Recommendation)

	a = parseAnalysis("nothing useful", stats)
	assert.Contains(t, a.Recommendation, "Rp100.000 to Rp300.000")
	assert.Len(t, a.Insights, 3)
	assert.Equal(t, "Price range shows 100.0% variability", a.Insights[1])
	assert.EqualValues(t, 180000, a.SuggestedPrice)
}

func TestFallbackAnalysis(t *testing.T) {
	a := fallbackAnalysis(Statistics{Min: 1, Max: 3, Average: 2, Median: 2})
	assert.Len(t, a.Insights, 4)
	assert.EqualValues(t, 2, a.SuggestedPrice)

	assert.Equal(t, "0.0", variability(Statistics{}))
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	src := market()
	gen := &fakeLLM{answer: "RECOMMENDATION: Ok\nINSIGHTS:\n- satu\nSUGGESTED_PRICE: 250000"}
	c := NewCase(logger.NewDiscard(), src, gen)

	var stages []string
	price := int64(220000)
	res, err := c.Analyze(ctx, Request{Query: "  kopi  ", UserPrice: &price}, func(p Progress) {
		stages = append(stages, p.Stage)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{StageFetching, StageCalculating, StageAnalyzing}, stages)
	assert.Equal(t, "kopi", res.Query)
	assert.Len(t, res.Products, 4, "unparseable price dropped")
	assert.Equal(t, Statistics{Min: 100000, Max: 400000, Average: 250000, Median: 250000, TotalProducts: 4}, res.Statistics)
	assert.Equal(t, "Ok", res.Analysis.Recommendation)
	assert.EqualValues(t, 250000, res.Analysis.SuggestedPrice)

	require.Len(t, gen.requests, 1)
	assert.Contains(t, gen.requests[0].Prompt, "USER'S INTENDED PRICE: Rp220.000")
	assert.Equal(t, analystSystem, gen.requests[0].System)
}

func TestAnalyzeToleratesOneSource(t *testing.T) {
	src := market()
	src.fail[scraper.Blibli] = true
	c := NewCase(logger.NewDiscard(), src, &fakeLLM{err: llm.ErrNotConfigured})

	res, err := c.Analyze(context.Background(), Request{Query: "kopi", Limit: 10}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Statistics.TotalProducts)
	assert.Len(t, res.Analysis.Insights, 4, "model failure serves the fallback")
}

func TestAnalyzeErrors(t *testing.T) {
	ctx := context.Background()

	src := market()
	src.fail[scraper.Blibli] = true
	src.fail[scraper.Tokopedia] = true
	c := NewCase(logger.NewDiscard(), src, &fakeLLM{})
	_, err := c.Analyze(ctx, Request{Query: "kopi"}, nil)
	assert.ErrorIs(t, err, ErrSourcesFailed)

	c = NewCase(logger.NewDiscard(), &fakeSource{}, &fakeLLM{})
	_, err = c.Analyze(ctx, Request{Query: "kopi"}, nil)
	assert.ErrorIs(t, err, ErrNoProducts)

	_, err = c.Analyze(ctx, Request{Query: "  "}, nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	_, err = c.Analyze(ctx, Request{Query: "kopi", Limit: 51}, nil)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestOptimizeQuery(t *testing.T) {
	ctx := context.Background()
	src := market()

	c := NewCase(logger.NewDiscard(), src, &fakeLLM{answer: "\"iphone smartphone\"\n"})
	assert.Equal(t, "iphone smartphone", c.OptimizeQuery(ctx, "iphone"))

	c = NewCase(logger.NewDiscard(), src, &fakeLLM{answer: "   "})
	assert.Equal(t, "iphone", c.OptimizeQuery(ctx, "iphone"))

	c = NewCase(logger.NewDiscard(), src, &fakeLLM{err: errors.New("quota")})
	assert.Equal(t, "iphone", c.OptimizeQuery(ctx, "iphone"))

	c = NewCase(logger.NewDiscard(), src, &fakeLLM{answer: "samsung hp"})
	res, err := c.Analyze(ctx, Request{Query: "samsung", Optimize: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, "samsung hp", res.Query)
	assert.Equal(t, "samsung hp", src.queries[0])
}

func ptr(v int64) *int64 { return &v }

func TestPosition(t *testing.T) {
	stats := Statistics{Min: 100, Max: 300, Average: 200}
	tests := []struct {
		price *int64
		want  string
	}{
		{nil, PositionNotSpecified},
		{ptr(69), PositionVeryLow},
		{ptr(70), PositionLow},
		{ptr(180), PositionBelowAverage},
		{ptr(220), PositionAverage},
		{ptr(300), PositionAboveAverage},
		{ptr(360), PositionHigh},
		{ptr(361), PositionVeryHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Position(stats, tt.price))
	}

	assert.True(t, ShouldProceed(stats, nil))
	assert.True(t, ShouldProceed(stats, ptr(50)))
	assert.False(t, ShouldProceed(stats, ptr(49)))
	assert.False(t, ShouldProceed(stats, ptr(361)))
}

func TestGuidance(t *testing.T) {
	res := Result{
		Statistics: Statistics{Min: 100000, Max: 300000, Average: 200000, Median: 200000, TotalProducts: 3},
		Analysis:   Analysis{SuggestedPrice: 200000},
	}

	g := Guidance(res, ptr(400000))
	assert.False(t, g.ShouldProceed)
	assert.Equal(t, PositionVeryHigh, g.PricePosition)
	assert.Len(t, g.Warnings, 3)
	assert.Contains(t, g.Suggestions, "📊 Harga Anda 100.0% lebih tinggi dari saran AI.")

	g = Guidance(res, nil)
	assert.Equal(t, []string{"Harga belum ditentukan. Pertimbangkan analisis di bawah."}, g.Warnings)
	assert.Len(t, g.Suggestions, 4)
}

func TestQuickCheck(t *testing.T) {
	ctx := context.Background()
	c := NewCase(logger.NewDiscard(), market(), &fakeLLM{err: llm.ErrNotConfigured})

	q, err := c.QuickCheck(ctx, "kopi", 250000)
	require.NoError(t, err)
	assert.Equal(t, PositionAverage, q.Position)
	assert.Equal(t, "Harga kompetitif", q.QuickAdvice)
	assert.Equal(t, PriceRange{Min: 100000, Max: 400000}, q.MarketRange)
	assert.True(t, q.ShouldProceed)

	_, err = c.QuickCheck(ctx, "kopi", 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

type fakeQueue struct {
	jobs      []priceanalysesrepo.PriceAnalysis
	completed map[string]json.RawMessage
	failed    map[string]int
}

func (q *fakeQueue) Checkout(context.Context, string) (priceanalysesrepo.PriceAnalysis, error) {
	if len(q.jobs) == 0 {
		return priceanalysesrepo.PriceAnalysis{}, priceanalysesrepo.ErrNoPending
	}
	job := q.jobs[0]
	q.jobs = q.jobs[1:]
	return job, nil
}

func (q *fakeQueue) Complete(_ context.Context, id string, result json.RawMessage, _ int) error {
	q.completed[id] = result
	return nil
}

func (q *fakeQueue) Fail(_ context.Context, id string, _ error, maxRetries int) error {
	q.failed[id] = maxRetries
	return nil
}

func TestJobProcessor(t *testing.T) {
	ctx := context.Background()
	queue := &fakeQueue{
		jobs: []priceanalysesrepo.PriceAnalysis{
			{AnalysisID: "a1", Query: "kopi", ResultLimit: 10},
			{AnalysisID: "a2", Query: " ", ResultLimit: 10},
		},
		completed: map[string]json.RawMessage{},
		failed:    map[string]int{},
	}
	p := NewJobProcessor(logger.NewDiscard(), NewCase(logger.NewDiscard(), market(), &fakeLLM{err: llm.ErrNotConfigured}), queue, 3)

	job, err := p.Checkout(ctx, "w1")
	require.NoError(t, err)
	job, err = p.Process(ctx, job)
	require.NoError(t, err)
	require.NoError(t, p.Complete(ctx, job, 12))
	assert.True(t, strings.Contains(string(queue.completed["a1"]), `"totalProducts":4`))

	job, err = p.Checkout(ctx, "w1")
	require.NoError(t, err)
	_, err = p.Process(ctx, job)
	require.Error(t, err)
	require.NoError(t, p.Fail(ctx, job, err))
	assert.Equal(t, 0, queue.failed["a2"], "invalid jobs are not retried")

	require.NoError(t, p.Fail(ctx, priceanalysesrepo.PriceAnalysis{AnalysisID: "a3"}, errors.New("timeout")))
	assert.Equal(t, 3, queue.failed["a3"])

	_, err = p.Checkout(ctx, "w1")
	assert.ErrorIs(t, err, workers.ErrNoWorkAvailable)
}
