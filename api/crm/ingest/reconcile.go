package ingest

import (
	"strings"
	"time"

	"BdsCrm/internal/config"
)

// Link roles. The first owner linked to a unit during a pass is the
// primary contact; everyone after is a co-owner.
const (
	RolePrimaryOwner = "Chủ sở hữu"
	RoleCoOwner      = "Đồng sở hữu"
)

// Options controls a reconciliation pass. When RequirePhone is set,
// records producing no valid phone are dropped and counted; otherwise
// phoneless rows fall back to a name-derived owner key. Now supplies the
// timestamp stamped onto imported notes and defaults to time.Now.
type Options struct {
	RequirePhone bool
	Now          func() time.Time
}

// Result is the three-table output of a pass plus its diagnostics.
type Result struct {
	Payload *Payload
	Meta    Meta
}

// Reconcile folds an ordered record sequence into the canonical unit,
// owner and link tables. The pass is a single left-to-right sweep: input
// order decides gap-fill priority, owner-merge resolution and
// primary-contact assignment, so it is deliberately not stable under
// reordering. It never fails; malformed cells degrade to absent values
// and rows without a unit code are skipped outright.
func Reconcile(records []Record, opts Options) Result {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	out := NewPayload()
	meta := Meta{TotalRows: len(records)}

	phoneOwner := map[string]string{}   // normalized phone -> owner id
	unitPrimary := map[string]bool{}    // unit id -> already has a primary link
	linkSeen := map[string]bool{}       // "<unitID>__<ownerID>" dedupe

	for _, rec := range records {
		fields := canonicalize(rec)

		maCan := strings.TrimSpace(fields[FieldMaCan])
		if maCan == "" {
			continue
		}

		phones := extractPhones(rec, fields)
		if len(phones) == 0 {
			if opts.RequirePhone {
				meta.DroppedNoPhone++
				continue
			}
		} else {
			meta.KeptByPhone++
		}

		phanKhu := InferZone(maCan)
		unitID := maCan + "|" + phanKhu
		unit, ok := out.CanHo[unitID]
		if !ok {
			unit = &Unit{ID: unitID, MaCan: maCan, PhanKhu: phanKhu}
			out.CanHo[unitID] = unit
		}
		fillUnit(unit, fields, now)

		ownerID := resolveOwnerID(phoneOwner, phones, fields)
		owner, ok := out.ChuNha[ownerID]
		if !ok {
			owner = &Owner{ID: ownerID}
			out.ChuNha[ownerID] = owner
		}
		if owner.HoTen == "" {
			owner.HoTen = strings.TrimSpace(fields[FieldHoTen])
		}
		for _, p := range phones {
			addOwnerPhone(owner, p)
			phoneOwner[p] = ownerID
		}

		linkID := LinkDocID(unitID, ownerID)
		if linkSeen[linkID] {
			continue
		}
		linkSeen[linkID] = true
		primary := !unitPrimary[unitID]
		unitPrimary[unitID] = true
		role := RoleCoOwner
		if primary {
			role = RolePrimaryOwner
		}
		out.ChuNhaCanHo = append(out.ChuNhaCanHo, &Link{
			CanHoID:          unitID,
			ChuNhaID:         ownerID,
			IsPrimaryContact: primary,
			Role:             role,
		})
	}

	return Result{Payload: out, Meta: meta}
}

// canonicalize maps a record's raw columns onto canonical field keys,
// silently dropping unmapped columns. Later duplicate columns win, same
// as the legacy importer.
func canonicalize(rec Record) map[string]string {
	fields := map[string]string{}
	for _, h := range rec.Headers {
		key := CanonicalField(h)
		if key == "" {
			continue
		}
		fields[key] = rec.Get(h)
	}
	return fields
}

// extractPhones returns up to two valid normalized phones for a record:
// the explicit sdt1/sdt2 fields first, else a column-order scan of every
// raw header matching the permissive phone vocabulary.
func extractPhones(rec Record, fields map[string]string) []string {
	phones := make([]string, 0, 2)
	appendPhone := func(raw string) {
		p := NormalizePhone(raw)
		if p == "" {
			return
		}
		for _, have := range phones {
			if have == p {
				return
			}
		}
		if len(phones) < 2 {
			phones = append(phones, p)
		}
	}

	appendPhone(fields[FieldSdt1])
	appendPhone(fields[FieldSdt2])
	if len(phones) > 0 {
		return phones
	}

	for _, h := range rec.Headers {
		if !IsPhoneHeader(h) {
			continue
		}
		if v := rec.Get(h); v != "" {
			appendPhone(v)
		}
		if len(phones) == 2 {
			break
		}
	}
	return phones
}

// resolveOwnerID finds the owner a record belongs to. Any candidate phone
// already seen reuses that owner (first match wins when the two phones
// point at different owners); otherwise the id is the first valid phone,
// falling back to a name slug plus the secondary phone for phoneless rows.
func resolveOwnerID(phoneOwner map[string]string, phones []string, fields map[string]string) string {
	for _, p := range phones {
		if id, ok := phoneOwner[p]; ok {
			return id
		}
	}
	if len(phones) > 0 {
		return phones[0]
	}
	name := strings.TrimSpace(fields[FieldHoTen])
	if name == "" {
		name = "unknown"
	}
	return Slug(name) + "|" + NormalizePhone(fields[FieldSdt2])
}

// addOwnerPhone grows an owner's phone set, capped at two numbers with
// first-seen priority. Existing numbers are never replaced.
func addOwnerPhone(o *Owner, phone string) {
	if phone == "" || phone == o.Sdt1 || phone == o.Sdt2 {
		return
	}
	if o.Sdt1 == "" {
		o.Sdt1 = phone
		return
	}
	if o.Sdt2 == "" {
		o.Sdt2 = phone
	}
}

// fillUnit populates the currently-absent fields of a unit from one
// record. First writer wins across the dataset; a populated field is never
// clobbered by a later import. Notes are the exception and always append.
func fillUnit(u *Unit, fields map[string]string, now func() time.Time) {
	if u.LoaiCan == "" {
		u.LoaiCan = strings.TrimSpace(fields[FieldLoaiCan])
	}
	if !u.Goc {
		u.Goc = ParseCornerFlag(fields[FieldGoc])
	}
	if u.DtDat == nil {
		u.DtDat = ParseDecimal(fields[FieldDtDat])
	}
	if u.DienTich == nil {
		u.DienTich = ParseDecimal(fields[FieldDienTich])
	}
	if u.Huong == "" {
		u.Huong = strings.TrimSpace(fields[FieldHuong])
	}
	if u.NhuCau == "" {
		u.NhuCau = strings.TrimSpace(fields[FieldNhuCau])
	}
	if u.Gia == nil {
		u.Gia = ParseDecimal(fields[FieldGia])
	}
	if !u.GiaTot {
		u.GiaTot = ParseBoolFlag(fields[FieldGiaTot])
	}
	if u.NoiThat == "" {
		u.NoiThat = strings.TrimSpace(fields[FieldNoiThat])
	}
	if u.SoPhongNgu == nil {
		u.SoPhongNgu = ParseInt(fields[FieldSoPhongNgu])
	}
	if u.BaoPhi == "" {
		u.BaoPhi = NormalizeFeeCategory(fields[FieldBaoPhi])
	}
	if content := strings.TrimSpace(fields[FieldGhiChu]); content != "" {
		t := now()
		u.GhiChu = append(u.GhiChu, Note{
			Date:    t.Format(config.DateFormat),
			Ts:      t.UnixMilli(),
			Content: content,
		})
	}
}

// MergePayload folds src into dst under the same rules a reconciliation
// pass applies: units gap-fill (notes append), owners fill name and grow
// phones, links insert once per (unit, owner) pair. A single-primary
// repair runs afterwards so re-imports cannot produce duplicate primaries.
func MergePayload(dst, src *Payload) {
	if dst.CanHo == nil {
		dst.CanHo = map[string]*Unit{}
	}
	if dst.ChuNha == nil {
		dst.ChuNha = map[string]*Owner{}
	}
	for id, in := range src.CanHo {
		cur, ok := dst.CanHo[id]
		if !ok {
			dst.CanHo[id] = in
			continue
		}
		mergeUnit(cur, in)
	}
	for id, in := range src.ChuNha {
		cur, ok := dst.ChuNha[id]
		if !ok {
			dst.ChuNha[id] = in
			continue
		}
		if cur.HoTen == "" {
			cur.HoTen = in.HoTen
		}
		addOwnerPhone(cur, in.Sdt1)
		addOwnerPhone(cur, in.Sdt2)
	}

	have := map[string]bool{}
	for _, l := range dst.ChuNhaCanHo {
		have[LinkDocID(l.CanHoID, l.ChuNhaID)] = true
	}
	for _, l := range src.ChuNhaCanHo {
		id := LinkDocID(l.CanHoID, l.ChuNhaID)
		if have[id] {
			continue
		}
		have[id] = true
		dst.ChuNhaCanHo = append(dst.ChuNhaCanHo, l)
	}
	EnsureSinglePrimary(dst)
}

// mergeUnit gap-fills cur from in and appends in's notes that are not
// already present (same ts and content), keeping re-imports idempotent.
func mergeUnit(cur, in *Unit) {
	if cur.LoaiCan == "" {
		cur.LoaiCan = in.LoaiCan
	}
	if !cur.Goc {
		cur.Goc = in.Goc
	}
	if cur.DtDat == nil {
		cur.DtDat = in.DtDat
	}
	if cur.DienTich == nil {
		cur.DienTich = in.DienTich
	}
	if cur.Huong == "" {
		cur.Huong = in.Huong
	}
	if cur.NhuCau == "" {
		cur.NhuCau = in.NhuCau
	}
	if cur.Gia == nil {
		cur.Gia = in.Gia
	}
	if !cur.GiaTot {
		cur.GiaTot = in.GiaTot
	}
	if cur.NoiThat == "" {
		cur.NoiThat = in.NoiThat
	}
	if cur.SoPhongNgu == nil {
		cur.SoPhongNgu = in.SoPhongNgu
	}
	if cur.BaoPhi == "" {
		cur.BaoPhi = in.BaoPhi
	}
	for _, n := range in.GhiChu {
		dup := false
		for _, have := range cur.GhiChu {
			if have.Ts == n.Ts && have.Content == n.Content {
				dup = true
				break
			}
		}
		if !dup {
			cur.GhiChu = append(cur.GhiChu, n)
		}
	}
}

// EnsureSinglePrimary repairs the one-primary-per-unit invariant: for
// every unit with at least one link, exactly one link keeps
// IsPrimaryContact, the first in slice order winning when none or several
// are flagged. Roles are left untouched.
func EnsureSinglePrimary(p *Payload) {
	byUnit := map[string][]*Link{}
	for _, l := range p.ChuNhaCanHo {
		byUnit[l.CanHoID] = append(byUnit[l.CanHoID], l)
	}
	for _, links := range byUnit {
		var primary *Link
		for _, l := range links {
			if l.IsPrimaryContact {
				if primary == nil {
					primary = l
				} else {
					l.IsPrimaryContact = false
				}
			}
		}
		if primary == nil && len(links) > 0 {
			links[0].IsPrimaryContact = true
		}
	}
}
