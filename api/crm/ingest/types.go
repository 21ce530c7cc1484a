package ingest

// Note is one timestamped CRM exchange entry on a unit. Entries are
// append-only; "latest" is the greatest Ts, ties broken by Date descending.
type Note struct {
	Date    string `json:"date"`
	Ts      int64  `json:"ts"`
	Content string `json:"content"`
}

// Unit is one physical listing. Identity is MaCan plus the inferred
// PhanKhu zone; numeric fields are pointers so an absent value is
// distinguishable from zero.
type Unit struct {
	ID         string   `json:"id"`
	MaCan      string   `json:"maCan"`
	PhanKhu    string   `json:"phanKhu"`
	LoaiCan    string   `json:"loaiCan,omitempty"`
	Goc        bool     `json:"goc"`
	DtDat      *float64 `json:"dtDat,omitempty"`
	DienTich   *float64 `json:"dienTich,omitempty"`
	Huong      string   `json:"huong,omitempty"`
	NhuCau     string   `json:"nhuCau,omitempty"`
	Gia        *float64 `json:"gia,omitempty"`
	GiaTot     bool     `json:"giaTot"`
	NoiThat    string   `json:"noiThat,omitempty"`
	SoPhongNgu *int     `json:"soPhongNgu,omitempty"`
	BaoPhi     string   `json:"baoPhi,omitempty"`
	GhiChu     []Note   `json:"ghiChu,omitempty"`
}

// Owner is one household contact, resolved by phone number. At most two
// distinct phones are retained, first-come priority.
type Owner struct {
	ID    string `json:"id"`
	HoTen string `json:"hoTen,omitempty"`
	Sdt1  string `json:"sdt1,omitempty"`
	Sdt2  string `json:"sdt2,omitempty"`
}

// Link associates a unit with an owner. Exactly one link per unit carries
// IsPrimaryContact whenever the unit has any link at all.
type Link struct {
	CanHoID          string `json:"canHoId"`
	ChuNhaID         string `json:"chuNhaId"`
	IsPrimaryContact bool   `json:"isPrimaryContact"`
	Role             string `json:"role"`
}

// Payload is the canonical three-table shape persisted to the local cache
// and the remote document store.
type Payload struct {
	CanHo       map[string]*Unit  `json:"canHo"`
	ChuNha      map[string]*Owner `json:"chuNha"`
	ChuNhaCanHo []*Link           `json:"chuNha_canHo"`
}

// NewPayload returns an empty payload with all tables allocated.
func NewPayload() *Payload {
	return &Payload{
		CanHo:       map[string]*Unit{},
		ChuNha:      map[string]*Owner{},
		ChuNhaCanHo: []*Link{},
	}
}

// Meta carries user-facing import diagnostics. It never drives control
// flow.
type Meta struct {
	TotalRows      int `json:"totalRows"`
	KeptByPhone    int `json:"keptByPhone"`
	DroppedNoPhone int `json:"droppedNoPhone"`
}

// LinkDocID is the remote-store document key for a link.
func LinkDocID(canHoID, chuNhaID string) string {
	return canHoID + "__" + chuNhaID
}
