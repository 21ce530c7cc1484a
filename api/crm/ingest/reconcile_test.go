package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, 8, 15, 9, 30, 0, 0, time.UTC)
}

func rec(headers []string, cells ...string) Record {
	values := map[string]string{}
	for i, h := range headers {
		if i < len(cells) {
			values[h] = cells[i]
		}
	}
	return Record{Headers: headers, Values: values}
}

func TestReconcileTwoRowsSameUnitAndOwner(t *testing.T) {
	headers := []string{"Mã Căn", "Ten NK", "Số di động", "Nhu cầu", "Giá"}
	records := []Record{
		rec(headers, "VT 1", "Nguyen Van A", "0901111111", "Bán", ""),
		rec(headers, "VT 1", "Nguyen Van A", "0901111111", "", "7.5"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	p := res.Payload

	require.Len(t, p.CanHo, 1)
	unit := p.CanHo["VT 1|VT"]
	require.NotNil(t, unit)
	require.Equal(t, "VT 1", unit.MaCan)
	require.Equal(t, "VT", unit.PhanKhu)
	require.Equal(t, "Bán", unit.NhuCau)
	require.NotNil(t, unit.Gia)
	require.Equal(t, 7.5, *unit.Gia)

	require.Len(t, p.ChuNha, 1)
	owner := p.ChuNha["0901111111"]
	require.NotNil(t, owner)
	require.Equal(t, "Nguyen Van A", owner.HoTen)
	require.Equal(t, "0901111111", owner.Sdt1)

	require.Len(t, p.ChuNhaCanHo, 1)
	link := p.ChuNhaCanHo[0]
	require.Equal(t, "VT 1|VT", link.CanHoID)
	require.Equal(t, "0901111111", link.ChuNhaID)
	require.True(t, link.IsPrimaryContact)
	require.Equal(t, RolePrimaryOwner, link.Role)

	require.Equal(t, Meta{TotalRows: 2, KeptByPhone: 2}, res.Meta)
}

func TestReconcileGapFillNeverOverwrites(t *testing.T) {
	headers := []string{"Mã Căn", "Số di động", "Hướng"}
	records := []Record{
		rec(headers, "A1 205", "0902222222", "Đông"),
		rec(headers, "A1 205", "0902222222", "Tây"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	require.Equal(t, "Đông", res.Payload.CanHo["A1 205|A1"].Huong)
}

func TestReconcileOwnerMergeByPhone(t *testing.T) {
	headers := []string{"Mã Căn", "Ten NK", "Số di động", "SĐT 2"}
	records := []Record{
		rec(headers, "VT 1", "Nguyen Van A", "0901234567", ""),
		rec(headers, "VT 2", "A (Zalo)", "0908888888", "0901234567"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	p := res.Payload

	// The second row shares a phone with the first, so both rows resolve
	// to the one owner and the new number joins its phone set.
	require.Len(t, p.ChuNha, 1)
	owner := p.ChuNha["0901234567"]
	require.NotNil(t, owner)
	require.Equal(t, "Nguyen Van A", owner.HoTen)
	require.Equal(t, "0901234567", owner.Sdt1)
	require.Equal(t, "0908888888", owner.Sdt2)

	require.Len(t, p.ChuNhaCanHo, 2)
	for _, l := range p.ChuNhaCanHo {
		require.Equal(t, "0901234567", l.ChuNhaID)
		require.True(t, l.IsPrimaryContact)
	}
}

func TestReconcileCoOwnerSecondLink(t *testing.T) {
	headers := []string{"Mã Căn", "Ten NK", "Số di động"}
	records := []Record{
		rec(headers, "VT 1", "Nguyen Van A", "0901111111"),
		rec(headers, "VT 1", "Tran Thi B", "0902222222"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	links := res.Payload.ChuNhaCanHo
	require.Len(t, links, 2)
	require.True(t, links[0].IsPrimaryContact)
	require.Equal(t, RolePrimaryOwner, links[0].Role)
	require.False(t, links[1].IsPrimaryContact)
	require.Equal(t, RoleCoOwner, links[1].Role)
}

func TestReconcileSkipsBlankUnitCode(t *testing.T) {
	headers := []string{"Mã Căn", "Số di động"}
	records := []Record{
		rec(headers, "   ", "0901111111"),
		rec(headers, "VT 1", "0901111111"),
	}

	res := Reconcile(records, Options{Now: fixedNow, RequirePhone: true})
	require.Len(t, res.Payload.CanHo, 1)
	// Blank unit codes skip before phone accounting.
	require.Equal(t, Meta{TotalRows: 2, KeptByPhone: 1}, res.Meta)
}

func TestReconcileRequirePhoneDropsAndCounts(t *testing.T) {
	headers := []string{"Mã Căn", "Ten NK", "Số di động"}
	records := []Record{
		rec(headers, "VT 1", "Nguyen Van A", "0901111111"),
		rec(headers, "VT 2", "Khach vang lai", ""),
		rec(headers, "VT 3", "So rac", "12345"),
	}

	res := Reconcile(records, Options{Now: fixedNow, RequirePhone: true})
	require.Len(t, res.Payload.CanHo, 1)
	require.Equal(t, Meta{TotalRows: 3, KeptByPhone: 1, DroppedNoPhone: 2}, res.Meta)
}

func TestReconcilePhonelessSlugFallback(t *testing.T) {
	headers := []string{"Mã Căn", "Ten NK"}
	records := []Record{
		rec(headers, "VT 1", "Nguyễn Văn A"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	require.Contains(t, res.Payload.ChuNha, "nguyen-van-a|")
	require.Equal(t, Meta{TotalRows: 1}, res.Meta)
}

func TestReconcileFallbackPhoneColumnScan(t *testing.T) {
	headers := []string{"Mã Căn", "Điện thoại vợ", "SĐT chồng"}
	records := []Record{
		rec(headers, "VT 1", "0903333333", "0904444444"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	owner := res.Payload.ChuNha["0903333333"]
	require.NotNil(t, owner)
	require.Equal(t, "0903333333", owner.Sdt1)
	require.Equal(t, "0904444444", owner.Sdt2)
}

func TestReconcileNotesStamped(t *testing.T) {
	headers := []string{"Mã Căn", "Số di động", "Nội dung trao đổi"}
	records := []Record{
		rec(headers, "VT 1", "0901111111", "gọi lại sau"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	unit := res.Payload.CanHo["VT 1|VT"]
	require.Len(t, unit.GhiChu, 1)
	require.Equal(t, "gọi lại sau", unit.GhiChu[0].Content)
	require.Equal(t, "2025-08-15", unit.GhiChu[0].Date)
	require.Equal(t, fixedNow().UnixMilli(), unit.GhiChu[0].Ts)
}

func TestReconcileIslandZone(t *testing.T) {
	headers := []string{"Mã Căn", "Số di động"}
	records := []Record{
		rec(headers, "TI 12", "0901111111"),
	}

	res := Reconcile(records, Options{Now: fixedNow})
	unit := res.Payload.CanHo["TI 12|"+ZoneIsland]
	require.NotNil(t, unit)
	require.Equal(t, ZoneIsland, unit.PhanKhu)
}

func TestMergePayloadIdempotent(t *testing.T) {
	headers := []string{"Mã Căn", "Ten NK", "Số di động", "Nội dung trao đổi"}
	records := []Record{
		rec(headers, "VT 1", "Nguyen Van A", "0901111111", "chốt giá"),
	}

	dst := NewPayload()
	first := Reconcile(records, Options{Now: fixedNow})
	MergePayload(dst, first.Payload)

	second := Reconcile(records, Options{Now: fixedNow})
	MergePayload(dst, second.Payload)

	require.Len(t, dst.CanHo, 1)
	require.Len(t, dst.ChuNha, 1)
	require.Len(t, dst.ChuNhaCanHo, 1)
	require.Len(t, dst.CanHo["VT 1|VT"].GhiChu, 1)
}

func TestMergePayloadGapFill(t *testing.T) {
	dst := NewPayload()
	dst.CanHo["VT 1|VT"] = &Unit{ID: "VT 1|VT", MaCan: "VT 1", PhanKhu: "VT", Huong: "Đông"}

	src := NewPayload()
	gia := 7.5
	src.CanHo["VT 1|VT"] = &Unit{ID: "VT 1|VT", MaCan: "VT 1", PhanKhu: "VT", Huong: "Tây", Gia: &gia}

	MergePayload(dst, src)
	unit := dst.CanHo["VT 1|VT"]
	require.Equal(t, "Đông", unit.Huong)
	require.NotNil(t, unit.Gia)
	require.Equal(t, 7.5, *unit.Gia)
}

func TestEnsureSinglePrimary(t *testing.T) {
	p := NewPayload()
	p.ChuNhaCanHo = []*Link{
		{CanHoID: "u1", ChuNhaID: "a", IsPrimaryContact: true, Role: RolePrimaryOwner},
		{CanHoID: "u1", ChuNhaID: "b", IsPrimaryContact: true, Role: RoleCoOwner},
		{CanHoID: "u2", ChuNhaID: "c", Role: RoleCoOwner},
	}

	EnsureSinglePrimary(p)

	require.True(t, p.ChuNhaCanHo[0].IsPrimaryContact)
	require.False(t, p.ChuNhaCanHo[1].IsPrimaryContact)
	// A unit whose links lost their primary gets the first one promoted,
	// role untouched.
	require.True(t, p.ChuNhaCanHo[2].IsPrimaryContact)
	require.Equal(t, RoleCoOwner, p.ChuNhaCanHo[2].Role)
}
