package jobs

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"BdsCrm/internal/config"
	"BdsCrm/internal/logger"
	"BdsCrm/internal/store"
)

// SyncConfig controls the scheduled payload push.
type SyncConfig struct {
	Schedule string
	TimeZone string
	Tenants  []string
}

func NewDefaultSyncConfig() *SyncConfig {
	return &SyncConfig{
		Schedule: config.DefaultSyncSchedule,
		TimeZone: config.DefaultTimeZone,
		Tenants:  []string{config.DefaultTenant},
	}
}

// busy guards against overlapping runs when a push outlasts the
// schedule interval.
var busy int32

// RunSyncScheduler registers the periodic push of every configured
// tenant's cached payload to the remote document store.
func RunSyncScheduler(cfg *SyncConfig, cache store.PayloadCache, docs store.DocumentStore) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultSyncSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}
	if len(cfg.Tenants) == 0 {
		cfg.Tenants = []string{config.DefaultTenant}
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
	}

	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.Schedule, func() {
		if !atomic.CompareAndSwapInt32(&busy, 0, 1) {
			logger.GlobalLogger.LogAudit("Payload sync skipped: previous run still in progress")
			return
		}
		defer atomic.StoreInt32(&busy, 0)
		SyncAllTenants(cfg.Tenants, cache, docs)
	})
	if err != nil {
		return fmt.Errorf("unable to schedule payload sync: %v", err)
	}

	c.Start()
	logger.GlobalLogger.LogAudit("Payload sync scheduler started")
	return nil
}

// SyncAllTenants pushes each tenant's cached payload in turn. A failing
// tenant is logged and skipped so one bad cache does not block the rest.
func SyncAllTenants(tenants []string, cache store.PayloadCache, docs store.DocumentStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	for _, tenant := range tenants {
		p, err := cache.Load(ctx, tenant)
		if err != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Payload sync: load %s failed: %v", tenant, err))
			continue
		}
		if p == nil || p.Empty() {
			continue
		}
		stats, err := store.SyncPayload(ctx, docs, tenant, p, false)
		if err != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Payload sync: push %s failed: %v", tenant, err))
			continue
		}
		logger.GlobalLogger.LogAudit(fmt.Sprintf(
			"Payload sync: %s pushed units=%d owners=%d links=%d batches=%d",
			tenant, stats.Units, stats.Owners, stats.Links, stats.Batches))
	}
}
