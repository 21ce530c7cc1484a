package crm

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
	"BdsCrm/internal/store"
)

// Deps carries the storage backends the CRM handlers run against. Docs
// is nil when no remote store is configured; sync and fetch then report
// a clean error instead of panicking.
type Deps struct {
	Cache store.PayloadCache
	Docs  store.DocumentStore

	// serializes load-modify-save cycles on the payload cache
	mu sync.Mutex
}

// StartCrmService wires the handler set onto its own mux and blocks on
// ListenAndServe, matching the per-service server model used everywhere
// else in the app.
func StartCrmService(deps *Deps) {
	mux := http.NewServeMux()

	mux.HandleFunc("/crm/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("CRM Service OK"))
	})
	mux.HandleFunc("/crm/upload", UploadHandler(deps))
	mux.HandleFunc("/crm/payload", GetPayloadHandler(deps))
	mux.HandleFunc("/crm/payload/import", ImportPayloadHandler(deps))
	mux.HandleFunc("/crm/payload/export", ExportPayloadHandler(deps))
	mux.HandleFunc("/crm/units", ListUnitsHandler(deps))
	mux.HandleFunc("/crm/units/create", CreateUnitHandler(deps))
	mux.HandleFunc("/crm/units/save", SaveUnitHandler(deps))
	mux.HandleFunc("/crm/links/delete", DeleteLinkHandler(deps))
	mux.HandleFunc("/crm/notes/add", AddNoteHandler(deps))
	mux.HandleFunc("/crm/report/today", TodayReportHandler(deps))
	mux.HandleFunc("/crm/sync", SyncHandler(deps))
	mux.HandleFunc("/crm/fetch", FetchHandler(deps))

	log.Println("CRM Service started on :6150")
	if err := http.ListenAndServe(":6150", mux); err != nil {
		log.Fatalf("CRM Service failed: %v", err)
	}
}

// tenantFrom resolves the tenant id from the request, falling back to
// the single-tenant default.
func tenantFrom(r *http.Request) string {
	if t := strings.TrimSpace(r.FormValue("tenant_id")); t != "" {
		return t
	}
	if t := strings.TrimSpace(r.URL.Query().Get("tenant_id")); t != "" {
		return t
	}
	return config.DefaultTenant
}

// loadPayload returns the tenant's cached payload, or a fresh empty one
// when nothing is cached yet.
func (d *Deps) loadPayload(ctx context.Context, tenant string) (*ingest.Payload, error) {
	p, err := d.Cache.Load(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = ingest.NewPayload()
	}
	return p, nil
}

// withPayload runs fn against the tenant's payload under the cache lock
// and persists the result when fn succeeds.
func (d *Deps) withPayload(ctx context.Context, tenant string, fn func(p *ingest.Payload) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, err := d.loadPayload(ctx, tenant)
	if err != nil {
		return err
	}
	if err := fn(p); err != nil {
		return err
	}
	return d.Cache.Save(ctx, tenant, p)
}
