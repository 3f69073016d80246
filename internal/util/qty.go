package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reQtyWithUnit = regexp.MustCompile(`(?i)(?:^|[^0-9.])(\d{1,4})\s*(?:ea|eaches|pcs?|qty|x)\b`)
	reQtyLabel    = regexp.MustCompile(`(?i)\bqty[:.\s]*(\d{1,4})\b`)
	reTrailQty    = regexp.MustCompile(`(?:^|\s)\(?(\d{1,3})\)?$`)
	reDims        = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*"?\s*W?\s*[xX×]\s*(\d+(?:\.\d+)?)\s*"?\s*H?(?:\s*[xX×]\s*(\d+(?:\.\d+)?)\s*"?\s*D?)?`)
	reMoney       = regexp.MustCompile(`\$\s*(\d{1,3}(?:,\d{3})*(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)
)

// ParseQuantity pulls a cabinet quantity out of a schedule line. A labeled
// "QTY 2" wins over a bare trailing count; anything unparseable defaults
// to 1, since a schedule row is at least one cabinet.
func ParseQuantity(line string) int {
	if m := reQtyLabel.FindStringSubmatch(line); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := reQtyWithUnit.FindStringSubmatch(line); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n
		}
	}
	if m := reTrailQty.FindStringSubmatch(strings.TrimSpace(line)); len(m) > 1 {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 && n < 100 {
			return n
		}
	}
	return 1
}

// ParseDimensions reads a WxHxD annotation like `15"W x 34.5"H x 24"D` or
// "15 x 30". Missing values come back as 0 (unknown).
func ParseDimensions(text string) (width, height, depth float64) {
	m := reDims.FindStringSubmatch(text)
	if len(m) == 0 {
		return 0, 0, 0
	}
	width = parseFloatOrZero(m[1])
	height = parseFloatOrZero(m[2])
	if len(m) > 3 && m[3] != "" {
		depth = parseFloatOrZero(m[3])
	}
	return width, height, depth
}

// ParseMoney reads the first dollar amount in the text, 0 if none.
func ParseMoney(text string) float64 {
	m := reMoney.FindStringSubmatch(text)
	if len(m) < 2 {
		return 0
	}
	return parseFloatOrZero(strings.ReplaceAll(m[1], ",", ""))
}

func parseFloatOrZero(token string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil {
		return 0
	}
	return v
}
