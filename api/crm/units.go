package crm

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"BdsCrm/api"
	"BdsCrm/api/constants"
	"BdsCrm/api/crm/ingest"
)

// unitFields is the editable subset of a unit. Pointers distinguish "not
// sent" from an explicit zero so a save only touches the fields present
// in the request.
type unitFields struct {
	LoaiCan    *string  `json:"loaiCan"`
	Goc        *bool    `json:"goc"`
	DtDat      *float64 `json:"dtDat"`
	DienTich   *float64 `json:"dienTich"`
	Huong      *string  `json:"huong"`
	NhuCau     *string  `json:"nhuCau"`
	Gia        *float64 `json:"gia"`
	GiaTot     *bool    `json:"giaTot"`
	NoiThat    *string  `json:"noiThat"`
	SoPhongNgu *int     `json:"soPhongNgu"`
	BaoPhi     *string  `json:"baoPhi"`
}

// applyUnitFields overwrites exactly the fields the request carries.
// Manual edits are authoritative, unlike spreadsheet imports which only
// gap-fill.
func applyUnitFields(u *ingest.Unit, f unitFields) {
	if f.LoaiCan != nil {
		u.LoaiCan = strings.TrimSpace(*f.LoaiCan)
	}
	if f.Goc != nil {
		u.Goc = *f.Goc
	}
	if f.DtDat != nil {
		u.DtDat = f.DtDat
	}
	if f.DienTich != nil {
		u.DienTich = f.DienTich
	}
	if f.Huong != nil {
		u.Huong = strings.TrimSpace(*f.Huong)
	}
	if f.NhuCau != nil {
		u.NhuCau = strings.TrimSpace(*f.NhuCau)
	}
	if f.Gia != nil {
		u.Gia = f.Gia
	}
	if f.GiaTot != nil {
		u.GiaTot = *f.GiaTot
	}
	if f.NoiThat != nil {
		u.NoiThat = strings.TrimSpace(*f.NoiThat)
	}
	if f.SoPhongNgu != nil {
		u.SoPhongNgu = f.SoPhongNgu
	}
	if f.BaoPhi != nil {
		u.BaoPhi = ingest.NormalizeFeeCategory(*f.BaoPhi)
	}
}

type createUnitRequest struct {
	MaCan string `json:"maCan"`
	unitFields
	HoTen string `json:"hoTen"`
	Sdt1  string `json:"sdt1"`
	Sdt2  string `json:"sdt2"`
}

// findOwnerByPhone reuses an existing owner when one of its phones
// matches, so manual entry follows the same identity rule as imports.
func findOwnerByPhone(p *ingest.Payload, phones ...string) *ingest.Owner {
	for _, phone := range phones {
		if phone == "" {
			continue
		}
		for _, o := range p.ChuNha {
			if o.Sdt1 == phone || o.Sdt2 == phone {
				return o
			}
		}
	}
	return nil
}

// CreateUnitHandler adds a unit by hand, linking it to a new or existing
// owner. The first link of a unit is the primary contact.
func CreateUnitHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req createUnitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		req.MaCan = strings.TrimSpace(req.MaCan)
		if req.MaCan == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUnitCode)
			return
		}

		phanKhu := ingest.InferZone(req.MaCan)
		unitID := req.MaCan + "|" + phanKhu
		sdt1 := ingest.NormalizePhone(req.Sdt1)
		sdt2 := ingest.NormalizePhone(req.Sdt2)

		var out map[string]interface{}
		err := deps.withPayload(r.Context(), tenantFrom(r), func(p *ingest.Payload) error {
			unit, ok := p.CanHo[unitID]
			if !ok {
				unit = &ingest.Unit{ID: unitID, MaCan: req.MaCan, PhanKhu: phanKhu}
				p.CanHo[unitID] = unit
			}
			applyUnitFields(unit, req.unitFields)

			owner := findOwnerByPhone(p, sdt1, sdt2)
			if owner == nil {
				id := sdt1
				if id == "" {
					name := strings.TrimSpace(req.HoTen)
					if name == "" {
						name = "unknown"
					}
					id = ingest.Slug(name) + "|" + sdt2
				}
				owner = &ingest.Owner{ID: id, Sdt1: sdt1, Sdt2: sdt2}
				p.ChuNha[id] = owner
			}
			if owner.HoTen == "" {
				owner.HoTen = strings.TrimSpace(req.HoTen)
			}

			linkID := ingest.LinkDocID(unitID, owner.ID)
			exists := false
			hasAny := false
			for _, l := range p.ChuNhaCanHo {
				if l.CanHoID == unitID {
					hasAny = true
					if ingest.LinkDocID(l.CanHoID, l.ChuNhaID) == linkID {
						exists = true
					}
				}
			}
			if !exists {
				role := ingest.RoleCoOwner
				if !hasAny {
					role = ingest.RolePrimaryOwner
				}
				p.ChuNhaCanHo = append(p.ChuNhaCanHo, &ingest.Link{
					CanHoID:          unitID,
					ChuNhaID:         owner.ID,
					IsPrimaryContact: !hasAny,
					Role:             role,
				})
			}
			ingest.EnsureSinglePrimary(p)

			out = map[string]interface{}{"unitId": unitID, "ownerId": owner.ID}
			return nil
		})
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheWriteFailed)
			return
		}
		api.RespondWithPayload(w, true, "", out)
	}
}

type saveUnitRequest struct {
	ID string `json:"id"`
	unitFields
	Owner *struct {
		ID    string  `json:"id"`
		HoTen *string `json:"hoTen"`
		Sdt1  *string `json:"sdt1"`
		Sdt2  *string `json:"sdt2"`
	} `json:"owner"`
}

// SaveUnitHandler applies a manual edit to a unit and optionally its
// owner contact details.
func SaveUnitHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req saveUnitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if strings.TrimSpace(req.ID) == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingUnitCode)
			return
		}

		err := deps.withPayload(r.Context(), tenantFrom(r), func(p *ingest.Payload) error {
			unit, ok := p.CanHo[req.ID]
			if !ok {
				return errors.New(constants.ErrUnitNotFound)
			}
			applyUnitFields(unit, req.unitFields)

			if req.Owner != nil {
				owner, ok := p.ChuNha[req.Owner.ID]
				if !ok {
					return errors.New(constants.ErrOwnerNotFound)
				}
				if req.Owner.HoTen != nil {
					owner.HoTen = strings.TrimSpace(*req.Owner.HoTen)
				}
				if req.Owner.Sdt1 != nil {
					owner.Sdt1 = ingest.NormalizePhone(*req.Owner.Sdt1)
				}
				if req.Owner.Sdt2 != nil {
					owner.Sdt2 = ingest.NormalizePhone(*req.Owner.Sdt2)
				}
			}
			return nil
		})
		if err != nil {
			status := http.StatusInternalServerError
			msg := constants.ErrCacheWriteFailed
			if err.Error() == constants.ErrUnitNotFound || err.Error() == constants.ErrOwnerNotFound {
				status, msg = http.StatusNotFound, err.Error()
			}
			api.RespondWithError(w, status, msg)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

type deleteLinkRequest struct {
	CanHoID  string `json:"canHoId"`
	ChuNhaID string `json:"chuNhaId"`
}

// DeleteLinkHandler removes one owner link from a unit. When the removed
// link was the primary contact, the unit's first remaining link is
// promoted so the invariant holds.
func DeleteLinkHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req deleteLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if req.CanHoID == "" || req.ChuNhaID == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingLinkKeys)
			return
		}

		err := deps.withPayload(r.Context(), tenantFrom(r), func(p *ingest.Payload) error {
			target := ingest.LinkDocID(req.CanHoID, req.ChuNhaID)
			kept := p.ChuNhaCanHo[:0]
			found := false
			for _, l := range p.ChuNhaCanHo {
				if ingest.LinkDocID(l.CanHoID, l.ChuNhaID) == target {
					found = true
					continue
				}
				kept = append(kept, l)
			}
			if !found {
				return errors.New(constants.ErrLinkNotFound)
			}
			p.ChuNhaCanHo = kept
			ingest.EnsureSinglePrimary(p)
			return nil
		})
		if err != nil {
			if err.Error() == constants.ErrLinkNotFound {
				api.RespondWithError(w, http.StatusNotFound, err.Error())
				return
			}
			api.RespondWithError(w, http.StatusInternalServerError, constants.ErrCacheWriteFailed)
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
