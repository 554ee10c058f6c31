package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reContractDA  = regexp.MustCompile(`(?i)(DA\d{5})`)
	reContractNum = regexp.MustCompile(`\b(\d{8})\b`)
	reSpaces      = regexp.MustCompile(`\s+`)
	rePercent     = regexp.MustCompile(`([-+]?\d+(?:\.\d+)?)\s*%`)
	reMoneyToken  = regexp.MustCompile(`[\d,]+\.\d{2}`)
)

// findContractNumber looks for the DA-prefixed contract id first, then the
// bare eight-digit alternative.
func findContractNumber(text string) any {
	if m := reContractDA.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := reContractNum.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return nil
}

// ContractNumberFromFilename recovers a DA-prefixed contract id from a
// filename when the document text did not yield one.
func ContractNumberFromFilename(name string) (string, bool) {
	if m := reContractDA.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1]), true
	}
	return "", false
}

// firstMatch returns the first capture group of the first pattern that
// matches, or "".
func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

func normalizeSpaces(s string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

// parseMoney parses "1,250,000.00" into a float64.
func parseMoney(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func moneyOrNil(s string) any {
	if v, ok := parseMoney(s); ok {
		return v
	}
	return nil
}

func strOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatOrNil(s string) any {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v
	}
	return nil
}

// parsePercent extracts a percentage value from a line, if present.
func parsePercent(line string) any {
	if m := rePercent.FindStringSubmatch(line); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return v
		}
	}
	return nil
}

var dateLayouts = []string{
	"January 2 2006",
	"Jan 2 2006",
	"01/02/2006",
	"2006-01-02",
}

// parseDate normalizes "March 15, 2024" style dates to ISO form; returns
// nil when no known layout matches.
func parseDate(s string) any {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return nil
}

var dateTimeLayouts = []string{
	"January 2 2006 3:04 PM",
	"Jan 2 2006 3:04 PM",
	"01/02/2006 3:04 PM",
}

func parseDateTime(dateStr, timeStr string) any {
	s := strings.TrimSpace(strings.ReplaceAll(dateStr, ",", "")) + " " +
		strings.ToUpper(strings.TrimSpace(timeStr))
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02 15:04:05")
		}
	}
	return nil
}

func nonBlankLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if l := normalizeSpaces(line); l != "" {
			out = append(out, l)
		}
	}
	return out
}
