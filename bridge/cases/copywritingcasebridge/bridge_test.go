package copywritingcasebridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kingjawir/marketplace/bridge/cases/copywritingcasebridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/copywritingcase"
	"github.com/kingjawir/marketplace/infrastructure/llm"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cannedLLM struct {
	answer string
	err    error
}

func (c cannedLLM) Generate(context.Context, llm.Request) (string, error) {
	return c.answer, c.err
}

type env struct {
	h      *web.WebHandler
	seller string
}

func newEnv(t *testing.T, gen copywritingcase.Generator) env {
	t.Helper()
	log := logger.NewDiscard()
	tokens, err := authtoken.NewManager(authtoken.Config{AccessSecret: "a", RefreshSecret: "r"})
	require.NoError(t, err)
	pair, err := tokens.Issue(authtoken.Subject{UserID: "usr1", Role: mid.RoleSeller})
	require.NoError(t, err)

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	copywritingcasebridge.AddHttpRoutes(h.Group(""), copywritingcasebridge.Config{
		Log:           log,
		Case:          copywritingcase.NewCase(log, gen),
		Authenticated: mid.Authenticate(tokens),
	})
	return env{h: h, seller: "Bearer " + pair.AccessToken}
}

func (e env) do(method, path, body, auth string) (int, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestGenerateDescription(t *testing.T) {
	e := newEnv(t, cannedLLM{err: llm.ErrNotConfigured})

	code, body := e.do(http.MethodPost, "/api/product-description/generate", `{"productInput":"keripik singkong pedas"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Deskripsi produk berhasil dihasilkan", body["message"])
	data := body["data"].(map[string]any)
	assert.Len(t, data["bullets"], 4)
	assert.Len(t, data["seoKeywords"], 6)

	code, _ = e.do(http.MethodPost, "/api/product-description/generate", `{"productInput":"  "}`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(http.MethodPost, "/api/product-description/generate",
		`{"productInput":"`+strings.Repeat("x", 501)+`"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGenerateMarketing(t *testing.T) {
	e := newEnv(t, cannedLLM{answer: "CONTENT: Keripik renyah!\nHASHTAGS: #Keripik #Pedas\nCTA: Beli sekarang"})

	desc := `{"short":"Keripik singkong pedas","long":"Renyah dan gurih","bullets":["Pedas"],"seoKeywords":["keripik"]}`
	code, body := e.do(http.MethodPost, "/api/marketing/generate", `{"productDescription":`+desc+`,"platform":"Instagram"}`, "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "instagram", data["platform"])
	assert.Equal(t, "Keripik renyah!", data["content"])
	assert.Equal(t, "Beli sekarang", data["callToAction"])

	code, body = e.do(http.MethodPost, "/api/marketing/generate", `{"productDescription":`+desc+`,"platform":"myspace"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"].(map[string]any)["details"], "platform")
}

func TestSellerDescription(t *testing.T) {
	answer := "```json\n" + `{"shortDescription":"Singkat","longDescription":"Panjang","keyFeatures":["A"],"seoKeywords":["b"]}` + "\n```"
	e := newEnv(t, cannedLLM{answer: answer})

	code, _ := e.do(http.MethodPost, "/api/seller/ai/generate-description", `{"productName":"Keripik"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := e.do(http.MethodPost, "/api/seller/ai/generate-description",
		`{"productName":"Keripik","targetMarket":"budget","specs":["200g"]}`, e.seller)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Singkat", body["data"].(map[string]any)["shortDescription"])

	code, _ = e.do(http.MethodPost, "/api/seller/ai/generate-description", `{"productName":"Keripik","targetMarket":"luxury"}`, e.seller)
	assert.Equal(t, http.StatusBadRequest, code)

	broken := newEnv(t, cannedLLM{answer: "maaf"})
	code, body = broken.do(http.MethodPost, "/api/seller/ai/generate-description", `{"productName":"Keripik"}`, broken.seller)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Format response AI tidak valid. Silakan coba lagi.", body["message"])

	offline := newEnv(t, cannedLLM{err: llm.ErrNotConfigured})
	code, body = offline.do(http.MethodPost, "/api/seller/ai/generate-description", `{"productName":"Keripik"}`, offline.seller)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Gagal generate deskripsi dengan AI", body["message"])
}

func TestImproveAndTips(t *testing.T) {
	e := newEnv(t, cannedLLM{answer: `{"improvedDescription":"Lebih baik"}`})

	code, body := e.do(http.MethodPost, "/api/seller/ai/improve-description",
		`{"currentDescription":"Keripik enak sekali","productName":"Keripik","improvements":["SEO"]}`, e.seller)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Lebih baik", body["data"].(map[string]any)["improvedDescription"])

	code, _ = e.do(http.MethodPost, "/api/seller/ai/improve-description",
		`{"currentDescription":"pendek","productName":"Keripik","improvements":[]}`, e.seller)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = e.do(http.MethodGet, "/api/seller/ai/description-tips", "", e.seller)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].(map[string]any)["tips"], 5)
}
