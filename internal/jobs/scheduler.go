package jobs

import (
	"fmt"
	"log"

	"BdsCrm/internal/logger"
	"BdsCrm/internal/serviceiface"
	"BdsCrm/internal/store"
)

type CronService struct {
	config map[string]interface{}
	cache  store.PayloadCache
	docs   store.DocumentStore
}

func NewCronService(cfg map[string]interface{}, cache store.PayloadCache, docs store.DocumentStore) serviceiface.Service {
	return &CronService{
		config: cfg,
		cache:  cache,
		docs:   docs,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	if s.docs == nil {
		log.Println("Cron service idle: no remote document store configured")
		return nil
	}

	syncConfig := NewDefaultSyncConfig()

	// Override sync config from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["sync_schedule"].(string); ok && schedule != "" {
			syncConfig.Schedule = schedule
		}
		if tz, ok := s.config["time_zone"].(string); ok && tz != "" {
			syncConfig.TimeZone = tz
		}
		if tenants, ok := s.config["tenants"].([]interface{}); ok && len(tenants) > 0 {
			syncConfig.Tenants = nil
			for _, t := range tenants {
				if name, ok := t.(string); ok && name != "" {
					syncConfig.Tenants = append(syncConfig.Tenants, name)
				}
			}
		}
	}

	if err := RunSyncScheduler(syncConfig, s.cache, s.docs); err != nil {
		return fmt.Errorf("failed to start payload sync scheduler: %v", err)
	}

	logger.GlobalLogger.LogAudit("Cron service started with payload sync scheduler")
	log.Println("Cron service started — payload sync scheduled")
	return nil
}

func (s *CronService) Stop() error {
	return nil
}
