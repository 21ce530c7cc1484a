package ingest

import (
	"errors"
	"fmt"
)

// ValidatePayload checks an imported payload before it is allowed to
// replace any table state. It accepts nil tables (treated as empty) but
// rejects structurally broken content so a bad file cannot corrupt the
// cache.
func ValidatePayload(p *Payload) error {
	if p == nil {
		return errors.New("empty payload")
	}
	for id, u := range p.CanHo {
		if u == nil {
			return fmt.Errorf("canHo[%s] is null", id)
		}
		if u.ID != "" && u.ID != id {
			return fmt.Errorf("canHo[%s] carries mismatched id %q", id, u.ID)
		}
	}
	for id, o := range p.ChuNha {
		if o == nil {
			return fmt.Errorf("chuNha[%s] is null", id)
		}
		if o.ID != "" && o.ID != id {
			return fmt.Errorf("chuNha[%s] carries mismatched id %q", id, o.ID)
		}
	}
	for i, l := range p.ChuNhaCanHo {
		if l == nil {
			return fmt.Errorf("chuNha_canHo[%d] is null", i)
		}
		if l.CanHoID == "" || l.ChuNhaID == "" {
			return fmt.Errorf("chuNha_canHo[%d] is missing canHoId or chuNhaId", i)
		}
	}
	return nil
}

// Normalize makes a decoded payload safe to work with: nil tables become
// empty, bare entries get their map key as id, and the single-primary
// invariant is repaired.
func (p *Payload) Normalize() {
	if p.CanHo == nil {
		p.CanHo = map[string]*Unit{}
	}
	if p.ChuNha == nil {
		p.ChuNha = map[string]*Owner{}
	}
	if p.ChuNhaCanHo == nil {
		p.ChuNhaCanHo = []*Link{}
	}
	for id, u := range p.CanHo {
		if u.ID == "" {
			u.ID = id
		}
	}
	for id, o := range p.ChuNha {
		if o.ID == "" {
			o.ID = id
		}
	}
	EnsureSinglePrimary(p)
}

// Counts reports table sizes for user-facing status messages.
func (p *Payload) Counts() (units, owners, links int) {
	return len(p.CanHo), len(p.ChuNha), len(p.ChuNhaCanHo)
}

// Empty reports whether all three tables are empty, the soft-failure
// signal after an import.
func (p *Payload) Empty() bool {
	return len(p.CanHo) == 0 && len(p.ChuNha) == 0 && len(p.ChuNhaCanHo) == 0
}
