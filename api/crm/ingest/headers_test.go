package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeText(t *testing.T) {
	require.Equal(t, "so di dong", NormalizeText("Số Di Động"))
	require.Equal(t, "ma can", NormalizeText("  Mã.Căn "))
	require.Equal(t, "noi dung trao doi", NormalizeText("Nội dung   trao_đổi"))
	require.Equal(t, "gia ban", NormalizeText("GIÁ/BÁN"))
	require.Equal(t, "", NormalizeText("   "))
}

func TestCanonicalField(t *testing.T) {
	require.Equal(t, FieldMaCan, CanonicalField("Mã Căn"))
	require.Equal(t, FieldHoTen, CanonicalField("Ten NK"))
	require.Equal(t, FieldSdt1, CanonicalField("Số di động"))
	require.Equal(t, FieldSdt2, CanonicalField("SĐT 2"))
	require.Equal(t, FieldNhuCau, CanonicalField("Nhu cầu"))
	require.Equal(t, FieldGhiChu, CanonicalField("Nội dung trao đổi"))
	require.Equal(t, FieldGia, CanonicalField("Giá bán"))
	require.Equal(t, "", CanonicalField("Cột lạ"))
}

func TestIsPhoneHeader(t *testing.T) {
	require.True(t, IsPhoneHeader("SĐT chồng"))
	require.True(t, IsPhoneHeader("Điện thoại vợ"))
	require.True(t, IsPhoneHeader("Mobile"))
	require.True(t, IsPhoneHeader("Liên hệ"))
	require.False(t, IsPhoneHeader("Ghi chú"))
	require.False(t, IsPhoneHeader(""))
}

func TestSlug(t *testing.T) {
	require.Equal(t, "nguyen-van-a", Slug("Nguyễn Văn A"))
	require.Equal(t, "tran-thi-b-2", Slug("  Trần  Thị B (2) "))
	require.Equal(t, "", Slug("***"))
}
