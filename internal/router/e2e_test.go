//go:build integration

package router_test

// e2e_test.go
// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocerytracker/internal/config"
	"grocerytracker/internal/infra"
	"grocerytracker/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	app    *router.App
	cfg    *config.Config
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("grocery_test"),
		tcPostgres.WithUsername("grocery"),
		tcPostgres.WithPassword("grocery"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                   "test",
		DatabaseURL:           pgURL,
		RedisURL:              rdURL,
		UseDemoData:           true,
		ScrapingEnabled:       true,
		ScrapingIntervalHours: 6,
		MaxRetries:            1,
		ItemsPerPage:          25,
		CacheTimeout:          300,
		Stores:                config.DefaultStores(),
	}

	db, err := infra.NewDatabase(cfg.DatabaseDSN())
	require.NoError(t, err)

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	gin.SetMode(gin.TestMode)
	app := router.New(cfg, db, rdb, nil)
	require.NoError(t, app.Seeder.Seed(ctx, cfg.Stores, true))

	srv := httptest.NewServer(app.Engine)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, app: app, cfg: cfg}
}

type listed struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func findID(t *testing.T, env *testEnv, path, name string) uint {
	t.Helper()
	var rows []listed
	resp := do(t, env.server, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &rows)
	for _, r := range rows {
		if r.Name == name {
			return r.ID
		}
	}
	t.Fatalf("%s: %q not found", path, name)
	return 0
}

type comparisonRow struct {
	ItemName  string  `json:"item_name"`
	StoreName string  `json:"store_name"`
	Price     float64 `json:"price"`
}

func comparison(t *testing.T, env *testEnv) []comparisonRow {
	t.Helper()
	var rows []comparisonRow
	resp := do(t, env.server, http.MethodGet, "/api/price-comparison", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &rows)
	return rows
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}
	env := setupTestEnv(t)

	t.Run("seeded reference data", func(t *testing.T) {
		var stores []listed
		resp := do(t, env.server, http.MethodGet, "/api/stores", nil)
		decodeJSON(t, resp, &stores)
		assert.Len(t, stores, len(env.cfg.Stores))

		var health struct {
			OK       bool `json:"ok"`
			Database struct {
				Driver string `json:"driver"`
			} `json:"database"`
			Cache struct {
				Status string `json:"status"`
			} `json:"cache"`
		}
		resp = do(t, env.server, http.MethodGet, "/health", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeJSON(t, resp, &health)
		assert.True(t, health.OK)
		assert.Equal(t, "postgres", health.Database.Driver)
		assert.Equal(t, "up", health.Cache.Status)
	})

	t.Run("cached comparison sees new writes", func(t *testing.T) {
		coop := findID(t, env, "/api/stores", "The Co-op")
		bananas := findID(t, env, "/api/items", "Bananas")

		resp := do(t, env.server, http.MethodPost, "/api/prices",
			jsonBody(t, map[string]any{"item_id": bananas, "store_id": coop, "price": 1.19, "date": "2026-03-01"}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
		require.Len(t, comparison(t, env), 1)

		resp = do(t, env.server, http.MethodPost, "/api/prices",
			jsonBody(t, map[string]any{"item_id": bananas, "store_id": coop, "price": 1.29, "date": "2026-03-08"}))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()

		rows := comparison(t, env)
		require.Len(t, rows, 1)
		assert.Equal(t, 1.29, rows[0].Price)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		coop := findID(t, env, "/api/stores", "The Co-op")
		bananas := findID(t, env, "/api/items", "Bananas")
		resp := do(t, env.server, http.MethodPost, "/api/prices",
			jsonBody(t, map[string]any{"item_id": bananas, "store_id": coop, "price": -5}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("demo scrape run", func(t *testing.T) {
		var out struct {
			Success    bool `json:"success"`
			TotalSaved int  `json:"total_saved"`
		}
		resp := do(t, env.server, http.MethodPost, "/api/scrape", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		decodeJSON(t, resp, &out)
		assert.True(t, out.Success)
		assert.Equal(t, 20, out.TotalSaved)

		// comparison now covers every demo product at every store
		assert.GreaterOrEqual(t, len(comparison(t, env)), 20)

		var status map[string]any
		resp = do(t, env.server, http.MethodGet, "/api/scrape/status", nil)
		decodeJSON(t, resp, &status)
		assert.NotNil(t, status["last_scrape"])
	})
}
