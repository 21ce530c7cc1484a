package crm

import (
	"net/http"
	"sort"
	"time"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/api/crm/ingest"
	"BdsCrm/internal/config"
)

// TodayLead is one unit that was worked today: its latest note carries
// today's date.
type TodayLead struct {
	UnitID     string `json:"unitId"`
	MaCan      string `json:"maCan"`
	PhanKhu    string `json:"phanKhu"`
	NhuCau     string `json:"nhuCau,omitempty"`
	Note       string `json:"note"`
	NoteTs     int64  `json:"noteTs"`
	OwnerName  string `json:"ownerName,omitempty"`
	OwnerPhone string `json:"ownerPhone,omitempty"`
}

// BuildTodayLeads scans the payload for units whose latest note is dated
// today and decorates each with its primary contact. Newest activity
// first.
func BuildTodayLeads(p *ingest.Payload, today string) []TodayLead {
	primaryOwner := map[string]string{}
	for _, l := range p.ChuNhaCanHo {
		if l.IsPrimaryContact {
			primaryOwner[l.CanHoID] = l.ChuNhaID
		}
	}

	var leads []TodayLead
	for id, unit := range p.CanHo {
		note := ingest.LatestNote(unit.GhiChu)
		if note.Date != today {
			continue
		}
		lead := TodayLead{
			UnitID:  id,
			MaCan:   unit.MaCan,
			PhanKhu: unit.PhanKhu,
			NhuCau:  unit.NhuCau,
			Note:    note.Content,
			NoteTs:  note.Ts,
		}
		if owner := p.ChuNha[primaryOwner[id]]; owner != nil {
			lead.OwnerName = owner.HoTen
			lead.OwnerPhone = owner.Sdt1
		}
		leads = append(leads, lead)
	}
	sort.Slice(leads, func(i, j int) bool {
		if leads[i].NoteTs != leads[j].NoteTs {
			return leads[i].NoteTs > leads[j].NoteTs
		}
		return leads[i].UnitID < leads[j].UnitID
	})
	return leads
}

// TodayReportHandler lists the units touched today, the morning-standup
// view of yesterday evening's calls.
func TodayReportHandler(deps *Deps) http.HandlerFunc {
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
		leads := BuildTodayLeads(p, time.Now().Format(config.DateFormat))
		api.RespondWithPayload(w, true, "", leads)
	}
}
