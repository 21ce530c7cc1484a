package ingest

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		nil_ bool
	}{
		{in: "1.234,5", want: 1234.5},
		{in: "1234.5", want: 1234.5},
		{in: "1,5", want: 1.5},
		{in: "1,234,567", want: 1234567},
		{in: "1.234.567", want: 1234567},
		{in: "1,234,567.89", want: 1234567.89},
		{in: "1.234.567,89", want: 1234567.89},
		{in: "7.5 tỷ", want: 7.5},
		{in: "-2,5", want: -2.5},
		{in: "0", want: 0},
		{in: "", nil_: true},
		{in: "   ", nil_: true},
		{in: "abc", nil_: true},
		{in: "-", nil_: true},
	}
	for _, c := range cases {
		got := ParseDecimal(c.in)
		if c.nil_ {
			require.Nil(t, got, "input %q", c.in)
			continue
		}
		require.NotNil(t, got, "input %q", c.in)
		require.InDelta(t, c.want, *got, 1e-9, "input %q", c.in)
	}
}

func TestParseInt(t *testing.T) {
	n := ParseInt("2,6")
	require.NotNil(t, n)
	require.Equal(t, 3, *n)

	require.Nil(t, ParseInt(""))
	require.Nil(t, ParseInt("n/a"))
}

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+84901234567":   "0901234567",
		"0084901234567":  "0901234567",
		"84901234567":    "0901234567",
		"901234567":      "0901234567",
		"0901234567":     "0901234567",
		"090 123-45.67":  "0901234567",
		"01201234567":    "01201234567",
		"12345":          "",
		"":               "",
		"abc":            "",
		"090123456789001": "09012345678",
	}
	for in, want := range cases {
		require.Equal(t, want, NormalizePhone(in), "input %q", in)
	}
}

func TestInferZone(t *testing.T) {
	require.Equal(t, "VT", InferZone("VT 1"))
	require.Equal(t, "A1", InferZone("  a1 205 "))
	require.Equal(t, ZoneIsland, InferZone("TI 12"))
	require.Equal(t, ZoneIsland, InferZone("ti-03 7"))
	require.Equal(t, "", InferZone("   "))
}

func TestNormalizeFeeCategory(t *testing.T) {
	require.Equal(t, FeeSplit, NormalizeFeeCategory("phí 50/50"))
	require.Equal(t, FeeExcluded, NormalizeFeeCategory("Không bao phí"))
	require.Equal(t, FeeExcluded, NormalizeFeeCategory("ko phi"))
	require.Equal(t, FeeIncluded, NormalizeFeeCategory("BAO PHÍ"))
	require.Equal(t, "tuỳ căn", NormalizeFeeCategory("tuỳ căn"))
	require.Equal(t, "", NormalizeFeeCategory("  "))
}

func TestParseCornerFlag(t *testing.T) {
	require.True(t, ParseCornerFlag("góc"))
	require.True(t, ParseCornerFlag("GOC"))
	require.True(t, ParseCornerFlag("1"))
	require.False(t, ParseCornerFlag(""))
	require.False(t, ParseCornerFlag("không"))
}
