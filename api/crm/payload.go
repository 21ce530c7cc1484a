package crm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

// GetPayloadHandler returns the tenant's full cached payload.
func GetPayloadHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		p, err := deps.loadPayload(r.Context(), tenantFrom(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheReadFailed)
			return
		}
		api.RespondWithPayload(w, true, "", p)
	}
}

// ImportPayloadHandler replaces the tenant's cached payload with a
// previously exported one. The body is validated in full before any
// state is touched, so a malformed file can never leave a half-written
// cache behind.
func ImportPayloadHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var p ingest.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidPayloadJSON)
			return
		}
		if err := ingest.ValidatePayload(&p); err != nil {
			api.RespondWithError(w, http.StatusBadRequest,
				constants.ErrInvalidPayloadJSON+": "+err.Error())
			return
		}
		p.Normalize()

		tenant := tenantFrom(r)
		deps.mu.Lock()
		err := deps.Cache.Save(r.Context(), tenant, &p)
		deps.mu.Unlock()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheWriteFailed)
			return
		}

		units, owners, links := p.Counts()
		api.LogInfo("import tenant=%s units=%d owners=%d links=%d", tenant, units, owners, links)
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"units": units, "owners": owners, "links": links,
		})
	}
}

// ExportPayloadHandler streams the payload as a pretty-printed JSON
// download named crm-data-YYYYMMDD-HHMM.json.
func ExportPayloadHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		p, err := deps.loadPayload(r.Context(), tenantFrom(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheReadFailed)
			return
		}

		filename := constants.ExportFilePrefix + time.Now().Format(config.ExportTimeFmt) + ".json"
		w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			api.LogError("export encode failed: %v", err)
		}
	}
}
