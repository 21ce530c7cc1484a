package crm

import (
	"net/http"
	"sort"
	"strings"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/api/crm/ingest"
	"BdsCrm/api/utils"
)

// unitRow is a unit decorated with its primary contact for list views.
type unitRow struct {
	*ingest.Unit
	OwnerName  string `json:"ownerName,omitempty"`
	OwnerPhone string `json:"ownerPhone,omitempty"`
}

// ListUnitsHandler returns a filtered, paginated unit listing. Filters:
// phan_khu and nhu_cau match exactly, q searches unit code and owner
// name diacritic-insensitively.
func ListUnitsHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		pag, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := deps.loadPayload(r.Context(), tenantFrom(r))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheReadFailed)
			return
		}

		phanKhu := strings.TrimSpace(r.URL.Query().Get("phan_khu"))
		nhuCau := strings.TrimSpace(r.URL.Query().Get("nhu_cau"))
		query := ingest.NormalizeText(r.URL.Query().Get("q"))

		primaryOwner := map[string]string{}
		for _, l := range p.ChuNhaCanHo {
			if l.IsPrimaryContact {
				primaryOwner[l.CanHoID] = l.ChuNhaID
			}
		}

		rows := make([]unitRow, 0, len(p.CanHo))
		for id, unit := range p.CanHo {
			if phanKhu != "" && unit.PhanKhu != phanKhu {
				continue
			}
			if nhuCau != "" && unit.NhuCau != nhuCau {
				continue
			}
			row := unitRow{Unit: unit}
			if owner := p.ChuNha[primaryOwner[id]]; owner != nil {
				row.OwnerName = owner.HoTen
				row.OwnerPhone = owner.Sdt1
			}
			if query != "" &&
				!strings.Contains(ingest.NormalizeText(unit.MaCan), query) &&
				!strings.Contains(ingest.NormalizeText(row.OwnerName), query) {
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

		pag.SetPaginationStats(len(rows))
		start, end := pag.Slice(len(rows))
		api.RespondWithPayload(w, true, "", map[string]interface{}{
			"units":      rows[start:end],
			"pagination": pag,
		})
	}
}
