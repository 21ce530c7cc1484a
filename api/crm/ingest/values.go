package ingest

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Value normalizers are total over all string input: unparseable or empty
// cells come back as the field's absent sentinel, never as an error.
// Downstream gap-fill logic relies on absent being distinct from zero.

// ParseDecimal converts locale-tolerant numeric text ("1.234,5", "1,5",
// "1234.5") into a float. When both separators appear, the later one is
// the decimal point and the other is stripped as a thousands separator;
// repeated occurrences of a single separator are thousands separators.
// Returns nil on empty or unparseable input.
func ParseDecimal(raw string) *float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return nil
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decSep, thouSep := ".", ","
		if lastComma > lastDot {
			decSep, thouSep = ",", "."
		}
		s = strings.ReplaceAll(s, thouSep, "")
		s = stripAllButLast(s, decSep)
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f := d.InexactFloat64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// stripAllButLast removes every occurrence of sep except the final one.
func stripAllButLast(s, sep string) string {
	last := strings.LastIndex(s, sep)
	if last < 0 {
		return s
	}
	head := strings.ReplaceAll(s[:last], sep, "")
	return head + s[last:]
}

// ParseInt parses via ParseDecimal and rounds to the nearest integer.
func ParseInt(raw string) *int {
	f := ParseDecimal(raw)
	if f == nil {
		return nil
	}
	n := int(math.Round(*f))
	return &n
}

// NormalizePhone canonicalizes a Vietnamese phone number to national
// format: leading 0, 10 or 11 digits. Anything else is "" (no phone).
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(s, "+84"):
		digits = "0" + strings.TrimPrefix(digits, "84")
	case strings.HasPrefix(digits, "0084"):
		digits = "0" + digits[4:]
	case strings.HasPrefix(digits, "84"):
		digits = "0" + digits[2:]
	}
	if len(digits) == 9 && !strings.HasPrefix(digits, "0") {
		digits = "0" + digits
	}
	if len(digits) > 11 {
		digits = digits[:11]
	}
	if len(digits) == 10 || len(digits) == 11 {
		return digits
	}
	return ""
}

// ZoneIsland is the zone label assigned to island-block unit codes.
const ZoneIsland = "ĐẢO"

// InferZone derives the zone code from the leading token of a unit code.
// Tokens beginning "TI" are the island blocks and map to the literal ĐẢO
// label; this is a project-specific naming convention, not a general rule.
func InferZone(maCan string) string {
	fields := strings.Fields(strings.TrimSpace(maCan))
	if len(fields) == 0 {
		return ""
	}
	tok := strings.ToUpper(fields[0])
	if strings.HasPrefix(tok, "TI") {
		return ZoneIsland
	}
	return tok
}

// Canonical fee-inclusion labels.
const (
	FeeSplit    = "Phí 50-50"
	FeeExcluded = "Không bao phí"
	FeeIncluded = "Bao phí"
)

// NormalizeFeeCategory folds free-text fee variants onto the three
// canonical labels; unrecognized text passes through unchanged.
func NormalizeFeeCategory(raw string) string {
	l := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case l == "":
		return ""
	case strings.Contains(l, "50"):
		return FeeSplit
	case strings.Contains(l, "kh"), strings.Contains(l, "ko"):
		return FeeExcluded
	case strings.Contains(l, "bao"):
		return FeeIncluded
	}
	return strings.TrimSpace(raw)
}

// ParseCornerFlag reports whether a cell marks the unit as a corner unit.
func ParseCornerFlag(raw string) bool {
	switch NormalizeText(raw) {
	case "goc", "1", "true", "x":
		return true
	}
	return false
}

// ParseBoolFlag is the generic truthy-cell reading used for flags like
// "good price".
func ParseBoolFlag(raw string) bool {
	switch NormalizeText(raw) {
	case "1", "true", "x", "co", "yes":
		return true
	}
	return false
}
