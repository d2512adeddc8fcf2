package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grocerytracker/internal/config"
	"grocerytracker/internal/dto"
	"grocerytracker/internal/model"
	"grocerytracker/internal/repository"

	"github.com/rs/zerolog/log"
)

const (
	ModeDemo       = "demo"
	ModeProduction = "production"
)

// ScraperConfig selects the stores and pacing of scrape runs.
type ScraperConfig struct {
	Stores        []config.StoreConfig // scrape order
	Enabled       bool
	Demo          bool
	IntervalHours int
	RequestDelay  time.Duration // between stores, live mode only
}

// ScraperManager runs scrapes store by store. Runs are serialized: a
// scheduled pass and a manual trigger never interleave.
type ScraperManager struct {
	mu      sync.Mutex
	cfg     ScraperConfig
	source  ProductSource
	prober  Prober
	stores  repository.StoreRepository
	reports repository.ReportRepository
	ingest  IngestionService
}

func NewScraperManager(
	cfg ScraperConfig,
	source ProductSource,
	prober Prober,
	stores repository.StoreRepository,
	reports repository.ReportRepository,
	ingest IngestionService,
) *ScraperManager {
	return &ScraperManager{
		cfg:     cfg,
		source:  source,
		prober:  prober,
		stores:  stores,
		reports: reports,
		ingest:  ingest,
	}
}

// Enabled reports whether scraping is switched on.
func (m *ScraperManager) Enabled() bool { return m.cfg.Enabled }

func (m *ScraperManager) mode() string {
	if m.cfg.Demo {
		return ModeDemo
	}
	return ModeProduction
}

func (m *ScraperManager) storeConfig(key string) (config.StoreConfig, bool) {
	for _, s := range m.cfg.Stores {
		if s.Key == key {
			return s, true
		}
	}
	return config.StoreConfig{}, false
}

// ScrapeStore fetches one store and, when save is set, ingests the records.
// An unknown key is skipped: success with zero counts.
func (m *ScraperManager) ScrapeStore(ctx context.Context, key string, save bool) dto.ScrapeResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scrapeLocked(ctx, key, save)
}

func (m *ScraperManager) scrapeLocked(ctx context.Context, key string, save bool) dto.ScrapeResult {
	sc, ok := m.storeConfig(key)
	if !ok {
		log.Warn().Str("store_key", key).Msg("scrape skipped: unknown store")
		return dto.ScrapeResult{Success: true, StoreID: key}
	}

	records, err := m.source.Fetch(ctx, sc)
	if err != nil {
		log.Error().Err(err).Str("store_key", key).Msg("scrape fetch failed")
		return dto.ScrapeResult{Success: false, StoreID: key, Error: err.Error()}
	}

	res := dto.ScrapeResult{Success: true, StoreID: key, ProductsCount: len(records)}
	if !save || len(records) == 0 {
		return res
	}

	if _, _, err := m.stores.FindOrCreateTx(m.stores.DB().WithContext(ctx), &model.Store{
		Name:            sc.Name,
		Location:        sc.Location,
		WebsiteURL:      sc.Website,
		ScrapingEnabled: sc.Enabled,
	}); err != nil {
		log.Error().Err(err).Str("store_key", key).Msg("scrape: ensure store failed")
		return dto.ScrapeResult{Success: false, StoreID: key, ProductsCount: len(records), Error: err.Error()}
	}

	saved, err := m.ingest.Ingest(ctx, sc.Name, records, model.SourceScraper)
	if err != nil {
		return dto.ScrapeResult{Success: false, StoreID: key, ProductsCount: len(records), Error: err.Error()}
	}
	res.SavedCount = saved
	return res
}

// ScrapeAll scrapes every enabled store in order. A failing store is recorded
// in its result and the run moves on.
func (m *ScraperManager) ScrapeAll(ctx context.Context, save bool) dto.ScrapeAllResponse {
	m.mu.Lock()
	defer m.mu.Unlock()

	resp := dto.ScrapeAllResponse{Success: true, Results: make(map[string]dto.ScrapeResult)}
	first := true
	for _, sc := range m.cfg.Stores {
		if !sc.Enabled {
			continue
		}
		if !first && !m.cfg.Demo && m.cfg.RequestDelay > 0 {
			if err := sleepCtx(ctx, m.cfg.RequestDelay); err != nil {
				log.Warn().Err(err).Msg("scrape run cancelled")
				break
			}
		}
		first = false

		r := m.scrapeLocked(ctx, sc.Key, save)
		resp.Results[sc.Key] = r
		resp.TotalProducts += r.ProductsCount
		resp.TotalSaved += r.SavedCount
	}

	log.Info().
		Int("stores", len(resp.Results)).
		Int("total_products", resp.TotalProducts).
		Int("total_saved", resp.TotalSaved).
		Str("mode", m.mode()).
		Msg("scrape run finished")
	return resp
}

// StoreStatus reports how many observations the store has and when the last
// one arrived. Storage failures give status "error".
func (m *ScraperManager) StoreStatus(ctx context.Context, key string) dto.StoreStatusResponse {
	name := key
	if sc, ok := m.storeConfig(key); ok {
		name = sc.Name
	}
	resp := dto.StoreStatusResponse{StoreID: key, Name: name, Status: "inactive"}

	count, last, err := m.reports.StoreActivity(ctx, name)
	if err != nil {
		log.Error().Err(err).Str("store_key", key).Msg("store status failed")
		resp.Status = "error"
		return resp
	}
	resp.ItemCount = count
	resp.LastScrape = last
	if count > 0 {
		resp.Status = "active"
	}
	return resp
}

// LastScrapeTime is the insert time of the newest scraper observation.
func (m *ScraperManager) LastScrapeTime(ctx context.Context) (model.NullTime, error) {
	return m.reports.LastScrape(ctx)
}

func (m *ScraperManager) Status(ctx context.Context) (dto.ScrapeStatusResponse, error) {
	last, err := m.LastScrapeTime(ctx)
	if err != nil {
		return dto.ScrapeStatusResponse{}, err
	}
	return dto.ScrapeStatusResponse{
		Enabled:       m.cfg.Enabled,
		IntervalHours: m.cfg.IntervalHours,
		LastScrape:    last,
		Mode:          m.mode(),
	}, nil
}

// TestConnection checks the store website. Demo mode never touches the network.
func (m *ScraperManager) TestConnection(ctx context.Context, key string) (dto.ConnectionResponse, error) {
	sc, ok := m.storeConfig(key)
	if !ok {
		return dto.ConnectionResponse{}, fmt.Errorf("%w: store %q", ErrNotFound, key)
	}
	resp := dto.ConnectionResponse{StoreID: key}
	if m.cfg.Demo {
		resp.Reachable = true
		return resp, nil
	}
	if err := m.prober.Probe(ctx, sc.Website); err != nil {
		log.Warn().Err(err).Str("store_key", key).Msg("connection test failed")
		return resp, nil
	}
	resp.Reachable = true
	return resp, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
