package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces        = regexp.MustCompile(`\s+`)
	reLetterGap     = regexp.MustCompile(`([A-Z]) (\d)`)
	reInsertedTen   = regexp.MustCompile(`^([A-Z]+)10(\d{2})$`)
	reLeadingZero   = regexp.MustCompile(`^([A-Z]+)0(\d{2})$`)
	reParenDir      = regexp.MustCompile(`\s*\([LR]\)$`)
	reDepthSuffix   = regexp.MustCompile(`\s*X\s*\d+\s*DP$`)
	reConstrSuffix  = regexp.MustCompile(`^(.*\d)(?:AH|VH|PH)(?:-[0-9A-Z]+)?$`)
	reTrailDir      = regexp.MustCompile(`^(.*\d)-?[LR]$`)
	reDashVariants  = strings.NewReplacer("–", "-", "—", "-", "−", "-")
	ocrReplacements = strings.NewReplacer("$", "B", "@", "0", "É", "E", "È", "E", "Ê", "E", "é", "E", "è", "E")
)

// NormalizeCode canonicalizes a raw, OCR-noisy cabinet code. Pure and
// idempotent: NormalizeCode(NormalizeCode(x)) == NormalizeCode(x).
func NormalizeCode(raw string) string {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	// Common OCR symbol misreads: "$33" for "B33", "B@" for "B0", accents for E.
	s = ocrReplacements.Replace(s)

	s = reSpaces.ReplaceAllString(s, " ")
	// OCR likes to split a single token: "SB 33" -> "SB33".
	for {
		next := reLetterGap.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}

	// Spurious inserted "1"/leading zero before a 2-digit size:
	// "BD1015" -> "BD15", "B015" -> "B15". Anchored so legitimate
	// 4-digit wall codes like "W1230" are untouched.
	s = reInsertedTen.ReplaceAllString(s, "$1$2")
	s = reLeadingZero.ReplaceAllString(s, "$1$2")

	// Suffix markers stack ("SB33-2B (L)", "SB36HDLH"), and each strip can
	// expose the next one, so repeat until the code stops changing.
	for {
		next := stripSuffixes(s)
		if next == s {
			break
		}
		s = next
	}

	return strings.TrimSpace(s)
}

// stripSuffixes peels one layer of cosmetic, directional and construction
// suffixes. NormalizeCode runs it to a fixpoint.
func stripSuffixes(s string) string {
	s = strings.TrimSuffix(s, "-2B")
	s = reParenDir.ReplaceAllString(s, "")
	s = reDepthSuffix.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "1TD", "")
	s = strings.ReplaceAll(s, "TD", "")
	s = strings.ReplaceAll(s, "ROT", "")

	s = stripStrayDots(s)

	// Construction-type suffixes following a digit run. The dash tail
	// ("-3" in "VDB27AH-3") goes with it; the key generator re-emits
	// variants that keep it.
	s = reConstrSuffix.ReplaceAllString(s, "$1")

	s = strings.TrimSuffix(s, "HD")

	if strings.HasPrefix(s, "DHW") {
		s = "DW" + s[3:]
	}

	s = reTrailDir.ReplaceAllString(s, "$1")
	s = strings.TrimSuffix(s, "LH")
	s = strings.TrimSuffix(s, "RH")

	s = strings.TrimSuffix(s, "FEL")
	s = strings.TrimSuffix(s, "FER")
	s = strings.TrimSuffix(s, "FE")

	return s
}

// stripStrayDots drops decimal points that are not between two digits,
// keeping real decimals like "1.5" and removing dots in abbreviations.
func stripStrayDots(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			prevDigit := i > 0 && isDigitByte(s[i-1])
			nextDigit := i+1 < len(s) && isDigitByte(s[i+1])
			if !prevDigit || !nextDigit {
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// LookupKey canonicalizes a string for probing the catalog map: uppercase,
// unicode dash variants folded to "-", all spaces removed.
func LookupKey(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	s = reDashVariants.Replace(s)
	return strings.ReplaceAll(s, " ", "")
}

func isDigitByte(b byte) bool {
	return b >= '0' && b <= '9'
}
