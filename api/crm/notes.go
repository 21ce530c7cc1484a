package crm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

type addNoteRequest struct {
	UnitID  string `json:"unitId"`
	Content string `json:"content"`
}

// AddNoteHandler appends a timestamped exchange note to a unit. Notes
// are never edited or removed, only appended.
func AddNoteHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req addNoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		req.Content = strings.TrimSpace(req.Content)
		if req.Content == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingNoteText)
			return
		}

		var note ingest.Note
		err := deps.withPayload(r.Context(), tenantFrom(r), func(p *ingest.Payload) error {
			unit, ok := p.CanHo[req.UnitID]
			if !ok {
				return errors.New(constants.ErrUnitNotFound)
			}
			now := time.Now()
			note = ingest.Note{
				Date:    now.Format(config.DateFormat),
				Ts:      now.UnixMilli(),
				Content: req.Content,
			}
			unit.GhiChu = append(unit.GhiChu, note)
			return nil
		})
		if err != nil {
			if err.Error() == constants.ErrUnitNotFound {
				api.RespondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheWriteFailed)
			return
		}
		api.RespondWithPayload(w, true, "", note)
	}
}
