package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/wireframe-extract/internal/application"
	appanalysis "github.com/bryanwahyu/wireframe-extract/internal/application/analysis"
	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/ai/prompt"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/db/sqlite"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/fs"
	"github.com/bryanwahyu/wireframe-extract/internal/infra/output"
)

type stubClient struct{ err error }

func (c *stubClient) Analyze(context.Context, domain.Request) (domain.Response, error) {
	if c.err != nil {
		return domain.Response{}, c.err
	}
	return domain.Response{Text: "analysis", Model: "gpt-4o", Usage: domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}}, nil
}

func (c *stubClient) Provider() string { return "openai" }

func newTestRouter(t *testing.T, client *stubClient) (http.Handler, afero.Fs) {
	t.Helper()
	conn, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	fsys := afero.NewMemMapFs()
	loc := fs.NewLocator(fsys, nil)
	svc := &appanalysis.Service{
		Locator:        loc,
		ProjectLocator: loc.WithRecursive(),
		Client:         client,
		Prompts:        prompt.Builder{},
		Writer:         output.NewWriter(fsys),
		Repo:           sqlite.NewAnalysisRepository(conn),
		Errors:         sqlite.NewRunErrorRepository(conn),
		Clock:          application.SystemClock{},
		Params:         domain.Params{Model: "gpt-4o"},
		Pricing:        domain.DefaultPricing(),
	}
	return NewRouter(svc, Options{InputDir: "/in", OutputDir: "/out"}), fsys
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, &stubClient{})
	rec := send(h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	assert.Equal(t, http.StatusOK, send(h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusOK, send(h, http.MethodGet, "/metrics", "").Code)
}

func TestAnalyzeThenQuery(t *testing.T) {
	h, fsys := newTestRouter(t, &stubClient{})
	for _, n := range []string{"login.png", "dashboard.png"} {
		require.NoError(t, afero.WriteFile(fsys, "/in/feature-checkout/"+n, []byte(n), 0o644))
	}

	rec := send(h, http.MethodPost, "/v1/acme/analyses", `{"mode":"feature","subject":"Checkout","folder":"feature-checkout"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		RunID   string        `json:"run_id"`
		Result  domain.Result `json:"result"`
		Outputs []string      `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, created.RunID, created.Result.ID)
	assert.Equal(t, []string{"dashboard.png", "login.png"}, created.Result.ImagesAnalyzed)
	assert.Contains(t, created.Outputs, "/out/acme/checkout/checkout-analysis.json")
	ok, _ := afero.Exists(fsys, "/out/acme/checkout/checkout-analysis.text")
	assert.True(t, ok)

	rec = send(h, http.MethodGet, "/v1/acme/analyses/"+created.RunID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Checkout", got.SubjectName)

	rec = send(h, http.MethodGet, "/v1/acme/analyses?page=1&page_size=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = send(h, http.MethodGet, "/v1/globex/analyses", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestAnalyzeMissingFolderRecordsRunError(t *testing.T) {
	h, _ := newTestRouter(t, &stubClient{})

	rec := send(h, http.MethodPost, "/v1/acme/analyses", `{"mode":"screen","folder":"screen-nope"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "scan", body["stage"])
	require.NotEmpty(t, body["run_id"])

	rec = send(h, http.MethodGet, "/v1/acme/runs/"+body["run_id"]+"/errors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var errs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "scan", errs[0]["stage"])
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		client *stubClient
		files  bool
		status int
	}{
		{"empty folder", &stubClient{}, false, http.StatusUnprocessableEntity},
		{"quota", &stubClient{err: fmt.Errorf("%w: 429", domain.ErrQuotaExceeded)}, true, http.StatusTooManyRequests},
		{"external", &stubClient{err: fmt.Errorf("%w: 401", domain.ErrExternalService)}, true, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, fsys := newTestRouter(t, tc.client)
			require.NoError(t, fsys.MkdirAll("/in/feature-x", 0o755))
			if tc.files {
				require.NoError(t, afero.WriteFile(fsys, "/in/feature-x/a.png", []byte("a"), 0o644))
			}
			rec := send(h, http.MethodPost, "/v1/acme/analyses", `{"mode":"feature","folder":"feature-x"}`)
			assert.Equal(t, tc.status, rec.Code, rec.Body.String())
		})
	}
}

func TestBadRequests(t *testing.T) {
	h, _ := newTestRouter(t, &stubClient{})

	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodPost, "/v1/acme/analyses", `{"mode":"feature","folder":"../etc"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodPost, "/v1/acme/analyses", `{"mode":"video","folder":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodPost, "/v1/acme/analyses", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodPost, "/v1/acme/projects", `{"folder":"/abs"}`).Code)
	assert.Equal(t, http.StatusBadRequest, send(h, http.MethodGet, "/v1/acme/analyses/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNotFound, send(h, http.MethodGet, "/v1/acme/analyses/"+uuid.New().String(), "").Code)
}

func TestProjectEndpoint(t *testing.T) {
	h, fsys := newTestRouter(t, &stubClient{})
	require.NoError(t, afero.WriteFile(fsys, "/in/project-analyze/reviews/list.png", []byte("x"), 0o644))

	start := time.Now()
	rec := send(h, http.MethodPost, "/v1/acme/projects", `{"folder":"project-analyze/reviews"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body struct {
		RunID   string               `json:"run_id"`
		Project domain.ProjectResult `json:"project"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Reviews", body.Project.FeatureContext)
	assert.False(t, body.Project.Result.GeneratedAt.Before(start.Add(-time.Second)))

	ok, _ := afero.Exists(fsys, "/out/acme/project-analyze/reviews/application_wireframe.dsl")
	assert.True(t, ok)
}
