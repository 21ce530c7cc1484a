package crm

import (
	"BdsCrm/internal/serviceiface"
)

type CrmService struct {
	config map[string]interface{}
	deps   *Deps
}

func NewCrmService(cfg map[string]interface{}, deps *Deps) serviceiface.Service {
	return &CrmService{config: cfg, deps: deps}
}

func (s *CrmService) Name() string {
	return "crm"
}

func (s *CrmService) Start() error {
	go StartCrmService(s.deps)
	return nil
}

func (s *CrmService) Stop() error {
	// Implement stop logic if needed
	return nil
}
