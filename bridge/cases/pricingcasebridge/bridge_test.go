package pricingcasebridge_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kingjawir/marketplace/bridge/cases/pricingcasebridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/llm"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type market map[scraper.Source][]scraper.Product

func (m market) Search(_ context.Context, src scraper.Source, _ string, limit int) ([]scraper.Product, error) {
	out, ok := m[src]
	if !ok {
		return nil, errors.New("source down")
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type offlineLLM struct{}

func (offlineLLM) Generate(context.Context, llm.Request) (string, error) {
	return "", llm.ErrNotConfigured
}

type memJobs struct {
	mu   sync.Mutex
	seq  int
	rows map[string]priceanalysesrepo.PriceAnalysis
}

func (m *memJobs) Create(_ context.Context, in priceanalysesrepo.CreatePriceAnalysis) (priceanalysesrepo.PriceAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	now := time.Now()
	a := priceanalysesrepo.PriceAnalysis{
		AnalysisID:       fmt.Sprintf("pa%d", m.seq),
		UserID:           in.UserID,
		Query:            in.Query,
		ResultLimit:      in.ResultLimit,
		UserPrice:        in.UserPrice,
		ProcessingStatus: priceanalysesrepo.StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	m.rows[a.AnalysisID] = a
	return a, nil
}

func (m *memJobs) GetByID(_ context.Context, id string) (priceanalysesrepo.PriceAnalysis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return a, priceanalysesrepo.ErrAnalysisNotFound
	}
	return a, nil
}

func (m *memJobs) ListByUser(_ context.Context, userID string, _ fop.Page) ([]priceanalysesrepo.PriceAnalysis, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []priceanalysesrepo.PriceAnalysis
	for _, a := range m.rows {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (m *memJobs) Checkout(context.Context, string) (priceanalysesrepo.PriceAnalysis, error) {
	return priceanalysesrepo.PriceAnalysis{}, priceanalysesrepo.ErrNoPending
}

func (m *memJobs) Complete(context.Context, string, json.RawMessage, int) error { return nil }

func (m *memJobs) Fail(context.Context, string, string, int) error { return nil }

func (m *memJobs) Requeue(context.Context, time.Time) (int64, error) { return 0, nil }

type env struct {
	h      *web.WebHandler
	tokens *authtoken.Manager
}

func newEnv(t *testing.T, m market) env {
	t.Helper()
	log := logger.NewDiscard()
	tokens, err := authtoken.NewManager(authtoken.Config{AccessSecret: "a", RefreshSecret: "r"})
	require.NoError(t, err)

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	pricingcasebridge.AddHttpRoutes(h.Group(""), pricingcasebridge.Config{
		Log:           log,
		Case:          pricingcase.NewCase(log, m, offlineLLM{}),
		Jobs:          priceanalysesrepo.NewRepository(log, &memJobs{rows: map[string]priceanalysesrepo.PriceAnalysis{}}),
		Authenticated: mid.Authenticate(tokens),
	})
	return env{h: h, tokens: tokens}
}

func defaultMarket() market {
	return market{
		scraper.Tokopedia: {
			{Name: "Sepatu A", Price: "Rp100.000", Source: scraper.Tokopedia},
			{Name: "Sepatu B", Price: "Rp200.000", Source: scraper.Tokopedia},
		},
		scraper.Blibli: {
			{Name: "Sepatu C", Price: "Rp300.000", Source: scraper.Blibli},
		},
	}
}

func (e env) bearer(t *testing.T, userID, role string) string {
	t.Helper()
	pair, err := e.tokens.Issue(authtoken.Subject{UserID: userID, Role: role})
	require.NoError(t, err)
	return "Bearer " + pair.AccessToken
}

func (e env) do(method, path, body, auth string) (int, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestAnalyze(t *testing.T) {
	e := newEnv(t, defaultMarket())

	code, body := e.do(http.MethodGet, "/api/price-analysis?query=sepatu&userPrice=150000", "", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	stats := data["statistics"].(map[string]any)
	assert.EqualValues(t, 100000, stats["min"])
	assert.EqualValues(t, 300000, stats["max"])
	assert.EqualValues(t, 200000, stats["median"])
	assert.EqualValues(t, 3, stats["totalProducts"])
	assert.Len(t, data["analysis"].(map[string]any)["insights"], 4, "offline model uses the fallback analysis")

	code, _ = e.do(http.MethodGet, "/api/price-analysis?query=", "", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(http.MethodGet, "/api/price-analysis?query=sepatu&limit=51", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAnalyzeSourcesDown(t *testing.T) {
	e := newEnv(t, market{})
	code, body := e.do(http.MethodGet, "/api/price-analysis?query=sepatu", "", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Gagal mengambil data produk dari Tokopedia dan Blibli", body["message"])
}

func TestJobs(t *testing.T) {
	e := newEnv(t, defaultMarket())
	ani := e.bearer(t, "usr1", mid.RoleCustomer)

	code, _ := e.do(http.MethodPost, "/api/price-analysis/jobs", `{"query":"sepatu"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := e.do(http.MethodPost, "/api/price-analysis/jobs", `{"query":"sepatu","userPrice":0}`, ani)
	require.Equal(t, http.StatusCreated, code)
	job := body["data"].(map[string]any)
	assert.Equal(t, "pending", job["status"])
	assert.EqualValues(t, 10, job["limit"])
	assert.Nil(t, job["userPrice"], "a zero price is not compared")

	id := job["id"].(string)
	code, _ = e.do(http.MethodGet, "/api/price-analysis/jobs/"+id, "", ani)
	assert.Equal(t, http.StatusOK, code)

	other := e.bearer(t, "usr2", mid.RoleCustomer)
	code, _ = e.do(http.MethodGet, "/api/price-analysis/jobs/"+id, "", other)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = e.do(http.MethodGet, "/api/price-analysis/jobs", "", ani)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].(map[string]any)["jobs"], 1)

	code, body = e.do(http.MethodPost, "/api/price-analysis/jobs", `{"query":" ","limit":99}`, ani)
	assert.Equal(t, http.StatusBadRequest, code)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "query")
	assert.Contains(t, details, "limit")
}

func TestSellerRoutes(t *testing.T) {
	e := newEnv(t, defaultMarket())
	seller := e.bearer(t, "usr3", mid.RoleSeller)

	code, _ := e.do(http.MethodGet, "/api/seller/price-analysis?productName=sepatu", "", e.bearer(t, "usr4", mid.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = e.do(http.MethodGet, "/api/seller/price-analysis?productName=ab", "", seller)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := e.do(http.MethodGet, "/api/seller/price-analysis?productName=sepatu&userPrice=40000", "", seller)
	require.Equal(t, http.StatusOK, code)
	guidance := body["data"].(map[string]any)["sellerGuidance"].(map[string]any)
	assert.Equal(t, pricingcase.PositionVeryLow, guidance["pricePosition"])
	assert.Equal(t, false, guidance["shouldProceed"])

	code, body = e.do(http.MethodPost, "/api/seller/price-analysis/quick-check", `{"productName":"sepatu","userPrice":200000}`, seller)
	require.Equal(t, http.StatusOK, code)
	check := body["data"].(map[string]any)
	assert.Equal(t, pricingcase.PositionAverage, check["position"])
	assert.Equal(t, "Harga kompetitif", check["quickAdvice"])

	code, _ = e.do(http.MethodPost, "/api/seller/price-analysis/quick-check", `{"productName":"sepatu","userPrice":0}`, seller)
	assert.Equal(t, http.StatusBadRequest, code)
}

func readMsg(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStream(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	e := newEnv(t, defaultMarket())
	srv := httptest.NewServer(e.h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/price-analysis/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	assert.Equal(t, pricingcasebridge.TypeConnected, readMsg(t, conn)["type"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	assert.Equal(t, pricingcasebridge.TypeError, readMsg(t, conn)["type"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "ping"}))
	msg := readMsg(t, conn)
	assert.Equal(t, pricingcasebridge.TypeError, msg["type"])
	assert.Contains(t, msg["message"], "start-analysis")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "start-analysis", "query": "  "}))
	assert.Equal(t, pricingcasebridge.TypeError, readMsg(t, conn)["type"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "start-analysis", "query": "sepatu", "limit": 5}))
	var stages []string
	for {
		msg := readMsg(t, conn)
		if msg["type"] != pricingcasebridge.TypeProgress {
			require.Equal(t, pricingcasebridge.TypeComplete, msg["type"])
			data := msg["data"].(map[string]any)
			assert.Equal(t, "sepatu", data["query"])
			break
		}
		stages = append(stages, msg["stage"].(string))
	}
	assert.Equal(t, []string{pricingcase.StageFetching, pricingcase.StageCalculating, pricingcase.StageAnalyzing}, stages)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}

func TestStreamFailure(t *testing.T) {
	e := newEnv(t, market{})
	srv := httptest.NewServer(e.h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/price-analysis/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	readMsg(t, conn)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "start-analysis", "query": "sepatu"}))

	for {
		msg := readMsg(t, conn)
		if msg["type"] == pricingcasebridge.TypeProgress {
			continue
		}
		assert.Equal(t, pricingcasebridge.TypeError, msg["type"])
		assert.Equal(t, "Gagal mengambil data produk dari Tokopedia dan Blibli", msg["message"])
		return
	}
}
