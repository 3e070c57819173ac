package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"car-rental-backend/config"
	"car-rental-backend/internal/model"
	"car-rental-backend/internal/parse"
	"car-rental-backend/internal/store"
)

// ErrDisabled is returned by SyncOnce when the feed is switched off.
var ErrDisabled = errors.New("booking feed is disabled")

// Dispatcher receives the vehicles whose bookings changed.
type Dispatcher interface {
	Dispatch(ctx context.Context, vehicleID string) bool
}

// Service pulls bookings from the upstream feed into the store on a schedule.
type Service struct {
	cfg        config.FeedConfig
	store      store.Store
	client     *http.Client
	loc        *time.Location
	dispatcher Dispatcher
	responses  *cache.Cache
	logger     *zap.Logger

	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewService creates the feed service. dispatcher and responses may be nil.
func NewService(cfg config.FeedConfig, s store.Store, dispatcher Dispatcher, responses *cache.Cache, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := config.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	var transport http.RoundTripper = &http.Transport{}
	if cfg.HTTPProxy != "" {
		proxyURL, err := url.Parse(cfg.HTTPProxy)
		if err != nil {
			logger.Warn("Invalid proxy URL, feed will not use a proxy", zap.String("proxy", cfg.HTTPProxy), zap.Error(err))
		} else {
			transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
		}
	}

	if cfg.Request.PageSize <= 0 {
		cfg.Request.PageSize = 100
	}

	return &Service{
		cfg:   cfg,
		store: s,
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,
		},
		loc:        loc,
		dispatcher: dispatcher,
		responses:  responses,
		logger:     logger,
	}, nil
}

// Start runs one sync immediately and then on the configured schedule.
func (s *Service) Start(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info("Booking feed is disabled, not starting")
		return
	}
	s.runCtx, s.cancel = context.WithCancel(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(s.cfg.Schedule, s.runScheduled); err != nil {
		s.logger.Warn("Invalid feed schedule, falling back to default",
			zap.String("schedule", s.cfg.Schedule), zap.String("fallback", config.DefaultFeedSchedule), zap.Error(err))
		c = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
		_, _ = c.AddFunc(config.DefaultFeedSchedule, s.runScheduled)
	}
	s.cron = c

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runScheduled()
	}()
	c.Start()
	s.logger.Info("Booking feed started", zap.String("schedule", s.cfg.Schedule))
}

// Stop cancels in-flight syncs and waits for them to return.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.wg.Wait()
}

func (s *Service) runScheduled() {
	if _, err := s.SyncOnce(s.runCtx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Feed sync failed", zap.Error(err))
	}
}

// SyncOnce fetches every page of the feed and reconciles the stored feed
// bookings with it. A fetch error aborts the cycle before anything is
// written.
func (s *Service) SyncOnce(ctx context.Context) (store.SyncResult, error) {
	if !s.cfg.Enabled {
		return store.SyncResult{}, ErrDisabled
	}
	s.logger.Debug("Executing feed sync cycle")

	var allItems []store.FeedItem
	total := 1
	pageSize := s.cfg.Request.PageSize
	for page := 1; (page-1)*pageSize < total; page++ {
		resp, err := s.fetchPage(ctx, page)
		if err != nil {
			return store.SyncResult{}, fmt.Errorf("fetch page %d: %w", page, err)
		}
		if resp.Data.Total == 0 || len(resp.Data.Items) == 0 {
			break
		}
		total = resp.Data.Total
		allItems = append(allItems, resp.Data.Items...)
		s.logger.Debug("Fetched feed page",
			zap.Int("page", page), zap.Int("total", total), zap.Int("items", len(allItems)))
	}

	items := s.parseItems(allItems)

	result, err := s.store.SyncBookings(ctx, model.SourceFeed, items)
	if err != nil {
		return store.SyncResult{}, fmt.Errorf("sync bookings: %w", err)
	}

	if len(result.Vehicles) > 0 {
		if s.responses != nil {
			s.responses.Flush()
		}
		if s.dispatcher != nil {
			for _, vehicleID := range result.Vehicles {
				s.dispatcher.Dispatch(ctx, vehicleID)
			}
		}
	}

	s.logger.Info("Feed sync finished",
		zap.Int("fetched", len(allItems)),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
		zap.Int("skipped", result.Skipped),
		zap.Strings("vehicles", result.Vehicles))
	return result, nil
}

// parseItems resolves the day/time fields of each item. Items that cannot
// be parsed, or that end before they start, are dropped.
func (s *Service) parseItems(raw []store.FeedItem) []store.FeedItem {
	items := make([]store.FeedItem, 0, len(raw))
	for _, item := range raw {
		if item.ID == "" || item.VehicleID == "" {
			s.logger.Warn("Dropping feed item without id or vehicle", zap.String("ref", item.ID))
			continue
		}
		span, err := parse.BookingSpan(item.StartDate, item.EndDate, item.StartTime, item.EndTime, s.loc)
		if err != nil {
			s.logger.Warn("Dropping unparseable feed item", zap.String("ref", item.ID), zap.Error(err))
			continue
		}
		item.Start, item.End = span.Start, span.End
		items = append(items, item)
	}
	return items
}

// fetchPage fetches a single page of bookings from the upstream feed.
func (s *Service) fetchPage(ctx context.Context, page int) (*ApiResponse, error) {
	payload := make(map[string]any, len(s.cfg.Request.Payload)+2)
	for k, v := range s.cfg.Request.Payload {
		payload[k] = v
	}
	payload["page"] = page
	payload["pageSize"] = s.cfg.Request.PageSize

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Request.URL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range s.cfg.Request.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp ApiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed response: %w", err)
	}

	if apiResp.Code != 0 {
		return nil, fmt.Errorf("feed returned non-zero application code: %d", apiResp.Code)
	}

	return &apiResp, nil
}
