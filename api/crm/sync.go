package crm

import (
	"encoding/json"
	"net/http"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/internal/store"
)

type syncRequest struct {
	Replace bool `json:"replace"`
}

// SyncHandler pushes the cached payload to the remote document store.
// With replace set, remote collections are dropped first so deletions
// made locally do not linger remotely.
func SyncHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if deps.Docs == nil {
			api.RespondWithError(w, http.StatusConflict, constants.ErrNoRemoteStore)
			return
		}
		var req syncRequest
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&req)
		}

		tenant := tenantFrom(r)
		p, err := deps.loadPayload(r.Context(), tenant)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheReadFailed)
			return
		}
		if p.Empty() {
			api.RespondWithError(w, http.StatusConflict, constants.ErrNoPayload)
			return
		}

		stats, err := store.SyncPayload(r.Context(), deps.Docs, tenant, p, req.Replace)
		if err != nil {
			api.LogError("sync tenant=%s: %v", tenant, err)
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrSyncFailed)
			return
		}
		api.LogInfo("sync tenant=%s units=%d owners=%d links=%d batches=%d",
			tenant, stats.Units, stats.Owners, stats.Links, stats.Batches)
		api.RespondWithPayload(w, true, "", stats)
	}
}

// FetchHandler pulls the remote tables and replaces the local cache with
// them, the recovery path for a blank or corrupted working copy.
func FetchHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if deps.Docs == nil {
			api.RespondWithError(w, http.StatusConflict, constants.ErrNoRemoteStore)
			return
		}

		tenant := tenantFrom(r)
		p, err := store.FetchPayload(r.Context(), deps.Docs, tenant)
		if err != nil {
			api.LogError("fetch tenant=%s: %v", tenant, err)
			api.RespondWithError(w, http.StatusBadGateway, constants.ErrFetchFailed)
			return
		}

		deps.mu.Lock()
		err = deps.Cache.Save(r.Context(), tenant, p)
		deps.mu.Unlock()
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheWriteFailed)
			return
		}

		units, owners, links := p.Counts()
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"units": units, "owners": owners, "links": links,
		})
	}
}
