package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/ai/mock"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/rerank"
	"github.com/poiesic/refind/rules"
	"github.com/poiesic/refind/storage"
	"github.com/poiesic/refind/storage/badger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	handler http.Handler
	repo    storage.ItemRepository
	scorer  *mock.MockScorer
}

func setupServer(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})

	scorer := mock.NewMockScorer()
	pipeline, err := rerank.NewPipeline(rules.NewScorer(rules.DefaultConfig()), scorer, rerank.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(pipeline.Close)

	srv, err := NewServer(repo, pipeline, opts...)
	require.NoError(t, err)

	return &testEnv{handler: srv.Routes(), repo: repo, scorer: scorer}
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleRerank(t *testing.T) {
	env := setupServer(t)

	t.Run("ranks candidates", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/rerank", RerankRequest{
			Query: "black wallet",
			Candidates: []core.Candidate{
				{ItemId: 2, Name: "umbrella"},
				{ItemId: 1, Name: "wallet", Color: "black"},
			},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var results []core.RankedItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Len(t, results, 2)
		assert.Equal(t, int64(1), results[0].ItemId)
	})

	t.Run("empty candidates yield empty array", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/rerank", RerankRequest{Query: "wallet"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("empty query rejected", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/rerank", RerankRequest{
			Query:      "  ",
			Candidates: []core.Candidate{{ItemId: 1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid candidate rejected", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/rerank", RerankRequest{
			Query:      "wallet",
			Candidates: []core.Candidate{{ItemId: -1}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/rerank", bytes.NewBufferString("{not json"))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("timeout degrades to rule-only", func(t *testing.T) {
		env.scorer.ScoreFunc = func(ctx context.Context, query string, candidates []core.Candidate) ai.Result {
			return ai.Result{Status: ai.StatusTimeout}
		}
		defer env.scorer.Reset()

		rec := doJSON(t, env.handler, http.MethodPost, "/rerank", RerankRequest{
			Query:      "wallet",
			Candidates: []core.Candidate{{ItemId: 1, Name: "wallet"}},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var results []core.RankedItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Len(t, results, 1)
		assert.Equal(t, "rule-only: timeout", results[0].Reason)
	})
}

func TestHandleItems(t *testing.T) {
	env := setupServer(t)

	lat, lon := 37.4979, 127.0276
	rec := doJSON(t, env.handler, http.MethodPost, "/items", AddItemsRequest{
		Items: []ItemPayload{
			{
				Name:         "black wallet",
				Category:     "wallet",
				Brand:        "louis vuitton",
				Color:        "black",
				StoredPlace:  "gangnam station",
				FeaturesText: "several cards inside",
				Lat:          &lat,
				Lon:          &lon,
			},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created []ItemPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 1)
	require.NotZero(t, created[0].Id)

	t.Run("list", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodGet, "/items", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var items []ItemPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		assert.Len(t, items, 1)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodGet, "/items/"+itoa(created[0].Id), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var item ItemPayload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
		assert.Equal(t, "black wallet", item.Name)
		require.NotNil(t, item.Lat)
		assert.InDelta(t, lat, *item.Lat, 1e-9)
	})

	t.Run("missing id", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodGet, "/items/999999", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodGet, "/items/not-a-number", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("item without name rejected", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/items", AddItemsRequest{
			Items: []ItemPayload{{Category: "wallet"}},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodDelete, "/items/"+itoa(created[0].Id), nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doJSON(t, env.handler, http.MethodGet, "/items/"+itoa(created[0].Id), nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandleSearch(t *testing.T) {
	env := setupServer(t)
	ctx := context.Background()

	near, far := 37.4979, 37.6
	_, err := env.repo.AddItems(ctx,
		&core.FoundItem{
			Name: "black wallet", Category: "wallet", Color: "black",
			Lat: near, Lon: 127.0276, HasLocation: true,
			FoundAt: time.Now().UTC().Add(-time.Hour),
		},
		&core.FoundItem{
			Name: "blue umbrella", Category: "umbrella", Color: "blue",
			Lat: far, Lon: 127.1, HasLocation: true,
			FoundAt: time.Now().UTC().Add(-48 * time.Hour),
		},
	)
	require.NoError(t, err)

	t.Run("ranks stored items", func(t *testing.T) {
		lat, lon := 37.4979, 127.0276
		rec := doJSON(t, env.handler, http.MethodPost, "/search", SearchRequest{
			Query: "black wallet", Lat: &lat, Lon: &lon,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var results []core.RankedItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		require.Len(t, results, 2)
		assert.Greater(t, results[0].RuleScore, results[1].RuleScore)
	})

	t.Run("category filter", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/search", SearchRequest{
			Query: "umbrella", Category: "umbrella",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var results []core.RankedItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
		assert.Len(t, results, 1)
	})

	t.Run("no stored items for category", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/search", SearchRequest{
			Query: "phone", Category: "phone",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("empty query rejected", func(t *testing.T) {
		rec := doJSON(t, env.handler, http.MethodPost, "/search", SearchRequest{Query: ""})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHealthz(t *testing.T) {
	env := setupServer(t)
	rec := doJSON(t, env.handler, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := rerank.NewMetrics()
	require.NoError(t, metrics.Register(registry))

	env := setupServer(t, WithRegistry(registry))
	rec := doJSON(t, env.handler, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHaversineKm(t *testing.T) {
	t.Run("zero distance", func(t *testing.T) {
		assert.InDelta(t, 0, haversineKm(37.5, 127.0, 37.5, 127.0), 1e-9)
	})

	t.Run("seoul to busan", func(t *testing.T) {
		d := haversineKm(37.5665, 126.9780, 35.1796, 129.0756)
		assert.InDelta(t, 325, d, 15)
	})
}

func itoa(v uint64) string {
	return strconv.FormatUint(v, 10)
}
