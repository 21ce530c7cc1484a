package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Canonical field keys produced by header mapping.
const (
	FieldMaCan      = "maCan"
	FieldHoTen      = "hoTen"
	FieldSdt1       = "sdt1"
	FieldSdt2       = "sdt2"
	FieldLoaiCan    = "loaiCan"
	FieldGoc        = "goc"
	FieldDtDat      = "dtDat"
	FieldDienTich   = "dienTich"
	FieldHuong      = "huong"
	FieldGhiChu     = "ghiChu"
	FieldNhuCau     = "nhuCau"
	FieldGia        = "gia"
	FieldGiaTot     = "giaTot"
	FieldNoiThat    = "noiThat"
	FieldSoPhongNgu = "soPhongNgu"
	FieldBaoPhi     = "baoPhi"
)

// headerMap maps normalized Vietnamese header phrases to canonical field
// keys. Lookup is exact-match after NormalizeText; there is no fuzzy or
// edit-distance matching. Headers that never match are simply ignored.
var headerMap = map[string]string{
	"ma can":            FieldMaCan,
	"ma can ho":         FieldMaCan,
	"can":               FieldMaCan,
	"ten nk":            FieldHoTen,
	"ten chu nha":       FieldHoTen,
	"chu nha":           FieldHoTen,
	"ho ten":            FieldHoTen,
	"so di dong":        FieldSdt1,
	"sdt":               FieldSdt1,
	"sdt 1":             FieldSdt1,
	"so dien thoai":     FieldSdt1,
	"dien thoai":        FieldSdt1,
	"sdt 2":             FieldSdt2,
	"so di dong 2":      FieldSdt2,
	"loai can":          FieldLoaiCan,
	"goc":               FieldGoc,
	"can goc":           FieldGoc,
	"dt dat":            FieldDtDat,
	"dien tich dat":     FieldDtDat,
	"dien tich":         FieldDienTich,
	"dt":                FieldDienTich,
	"huong":             FieldHuong,
	"noi dung trao doi": FieldGhiChu,
	"ghi chu":           FieldGhiChu,
	"trao doi":          FieldGhiChu,
	"nhu cau":           FieldNhuCau,
	"gia":               FieldGia,
	"gia ban":           FieldGia,
	"gia thue":          FieldGia,
	"gia tot":           FieldGiaTot,
	"noi that":          FieldNoiThat,
	"so phong ngu":      FieldSoPhongNgu,
	"phong ngu":         FieldSoPhongNgu,
	"pn":                FieldSoPhongNgu,
	"bao phi":           FieldBaoPhi,
	"phi":               FieldBaoPhi,
}

// phoneHeaderTerms is the broader vocabulary used when a record carries no
// explicit sdt1/sdt2 column: any raw header whose normalized text contains
// one of these terms is treated as phone-bearing.
var phoneHeaderTerms = []string{
	"sdt", "so di dong", "di dong", "dien thoai", "phone", "mobile", "lien he",
}

// NormalizeText lowers a free-form header or search string into its
// diacritic-free form: NFD decompose, drop combining marks, fold đ to d,
// lowercase, collapse whitespace and separator punctuation to single
// spaces, trim.
func NormalizeText(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		switch r {
		case 'đ':
			b.WriteRune('d')
		case 'Đ':
			b.WriteRune('D')
		case '.', '_', '/':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(strings.ToLower(b.String())), " ")
}

// CanonicalField maps a raw column header to its canonical field key, or
// "" when the header is unknown.
func CanonicalField(rawHeader string) string {
	return headerMap[NormalizeText(rawHeader)]
}

// IsPhoneHeader reports whether a raw header looks phone-related under the
// permissive vocabulary used for the fallback phone scan.
func IsPhoneHeader(rawHeader string) bool {
	n := NormalizeText(rawHeader)
	if n == "" {
		return false
	}
	for _, term := range phoneHeaderTerms {
		if strings.Contains(n, term) {
			return true
		}
	}
	return false
}

// Slug collapses a display name into a lowercase hyphenated token used for
// the phoneless owner-identity fallback.
func Slug(s string) string {
	n := NormalizeText(s)
	var b strings.Builder
	lastDash := true
	for _, r := range n {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash {
			b.WriteRune('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
