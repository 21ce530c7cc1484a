package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindHeaderRowSkipsBanner(t *testing.T) {
	grid := [][]string{
		{"DANH SÁCH CĂN HỘ THÁNG 8", "", ""},
		{"Mã Căn", "Ten NK", "Số di động"},
		{"VT 1", "Nguyen Van A", "0901111111"},
	}
	require.Equal(t, 1, FindHeaderRow(grid))
}

func TestFindHeaderRowDefaultsToFirst(t *testing.T) {
	grid := [][]string{
		{"a", "b"},
		{"c", "d"},
	}
	require.Equal(t, 0, FindHeaderRow(grid))
}

func TestMapToRecords(t *testing.T) {
	grid := [][]string{
		{"Bảng kê", ""},
		{"Mã Căn", " Ten NK ", "", "Giá"},
		{"VT 1", "Nguyen Van A", "bỏ qua", "7.5"},
		{"", "   ", "", ""},
		{"A1 205", "Tran Thi B"},
	}
	recs := MapToRecords(grid)
	require.Len(t, recs, 2)

	require.Equal(t, "VT 1", recs[0].Get("Mã Căn"))
	require.Equal(t, "Nguyen Van A", recs[0].Get("Ten NK"))
	require.Equal(t, "7.5", recs[0].Get("Giá"))

	// Short rows read as blank under trailing headers.
	require.Equal(t, "A1 205", recs[1].Get("Mã Căn"))
	require.Equal(t, "", recs[1].Get("Giá"))
}

func TestMapToRecordsEmptyGrid(t *testing.T) {
	require.Nil(t, MapToRecords(nil))
	require.Empty(t, MapToRecords([][]string{{"Mã Căn", "Giá"}}))
}
