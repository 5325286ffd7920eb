package http_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	controller "github.com/soochi-lab/soochi/pkg/controller/http"
	"github.com/soochi-lab/soochi/pkg/domain/model"
	"github.com/soochi-lab/soochi/pkg/domain/types"
	"github.com/soochi-lab/soochi/pkg/repository/memory"
	vectormem "github.com/soochi-lab/soochi/pkg/repository/vector/memory"
	"github.com/soochi-lab/soochi/pkg/usecase"
)

type stubAIService struct{}

func (stubAIService) ExtractIdeas(ctx context.Context, content string) (*model.ExtractionResponse, error) {
	return &model.ExtractionResponse{}, nil
}

func (stubAIService) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func newTestServer(t *testing.T) (*controller.Server, *memory.Memory) {
	t.Helper()
	repo := memory.New()
	uc := usecase.New(repo, vectormem.New(), stubAIService{})
	return controller.New(uc), repo
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	gt.Equal(t, rec.Code, http.StatusOK)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body["status"], "ok")
}

func TestBatches(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	_, err := repo.BatchJob().Create(ctx, &model.BatchJob{
		ID:       "batch-http-test",
		Provider: types.ProviderOpenAI,
	})
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches", nil))

	gt.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		Batches []*model.BatchJob `json:"batches"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.A(t, body.Batches).Length(1)
	gt.Equal(t, body.Batches[0].ID, types.BatchID("batch-http-test"))
}

func TestBatchesFiltersByStatus(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	_, err := repo.BatchJob().Create(ctx, &model.BatchJob{
		ID:       "batch-done",
		Provider: types.ProviderOpenAI,
		Status:   types.BatchStatusCompleted,
	})
	gt.NoError(t, err).Required()
	_, err = repo.BatchJob().Create(ctx, &model.BatchJob{
		ID:       "batch-waiting",
		Provider: types.ProviderOpenAI,
	})
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches?status=completed", nil))

	gt.Equal(t, rec.Code, http.StatusOK)

	var body struct {
		Batches []*model.BatchJob `json:"batches"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.A(t, body.Batches).Length(1)
	gt.Equal(t, body.Batches[0].ID, types.BatchID("batch-done"))
	gt.Equal(t, body.Batches[0].Status, types.BatchStatusCompleted)
}

func TestBatchesRejectsBadStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches?status=running", nil))

	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestBatchesRejectsBadLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches?limit=nope", nil))

	gt.Equal(t, rec.Code, http.StatusBadRequest)
}

func TestSeenURLCount(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	url := "https://example.com/counted"
	gt.NoError(t, repo.SeenURL().PutAll(ctx, []*model.SeenURL{
		{URLHash: types.HashURL(url), URL: url, Title: "counted"},
	}))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/seen-urls/count", nil))

	gt.Equal(t, rec.Code, http.StatusOK)

	var body map[string]int
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body["count"], 1)
}

func TestRespondJSONReportsMarshalFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	// NaN is not representable in JSON, so Marshal fails
	controller.RespondJSON(rec, req, http.StatusOK, map[string]any{"value": math.NaN()})

	gt.Equal(t, rec.Code, http.StatusInternalServerError)
}

func TestRunsAccepted(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/runs/process", nil))

	gt.Equal(t, rec.Code, http.StatusAccepted)

	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	gt.Equal(t, body["run"], "process")
	gt.Equal(t, body["status"], "accepted")
}
