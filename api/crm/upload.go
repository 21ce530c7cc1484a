package crm

import (
	"io"
	"net/http"

	"github.com/google/uuid"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/api/crm/ingest"
)

// uploadResult is the body returned after a spreadsheet import.
type uploadResult struct {
	BatchID string      `json:"batchId"`
	Meta    ingest.Meta `json:"meta"`
	Units   int         `json:"units"`
	Owners  int         `json:"owners"`
	Links   int         `json:"links"`
	Warning string      `json:"warning,omitempty"`
}

// UploadHandler ingests one spreadsheet into the tenant's payload. The
// file is parsed, reconciled into the three tables and merged into the
// cached payload; existing values are never overwritten, only gaps
// filled. A sheet that produces zero entries still succeeds but carries
// a warning so the operator can check the header row.
func UploadHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidRequestBody)
			return
		}
		file, header, err := r.FormFile(constants.FormFieldFile)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingFile)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrParseFailed)
			return
		}

		grid, err := ParseGridFile(header.Filename, content)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		requirePhone := ingest.ParseBoolFlag(r.FormValue(constants.FormFieldRequirePhone))
		records := ingest.MapToRecords(grid)
		res := ingest.Reconcile(records, ingest.Options{RequirePhone: requirePhone})

		tenant := tenantFrom(r)
		batchID := uuid.New().String()

		var out uploadResult
		err = deps.withPayload(r.Context(), tenant, func(p *ingest.Payload) error {
			ingest.MergePayload(p, res.Payload)
			out.Units, out.Owners, out.Links = p.Counts()
			return nil
		})
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheWriteFailed)
			return
		}

		out.BatchID = batchID
		out.Meta = res.Meta
		if res.Payload.Empty() {
			out.Warning = "no rows were recognized; check the header row of the sheet"
		}
		api.LogInfo("upload %s tenant=%s rows=%d kept=%d dropped=%d",
			batchID, tenant, res.Meta.TotalRows, res.Meta.KeptByPhone, res.Meta.DroppedNoPhone)
		api.RespondWithPayload(w, true, "", out)
	}
}
