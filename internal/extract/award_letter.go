package extract

import (
	"context"
	"regexp"
	"strings"

	"github.com/openlettings/biddocs/constants"
)

// awardLetterStrategy pulls the award facts out of notification letters.
type awardLetterStrategy struct{}

func (awardLetterStrategy) Type() constants.DocumentType { return constants.AwardLetter }
func (awardLetterStrategy) Name() string                 { return "award_letter" }

var (
	reAwardContract = regexp.MustCompile(`(?i)Contract No\.?\s*:?\s*(DA\d{5})`)
	reAwardCompany  = []*regexp.Regexp{
		regexp.MustCompile(`(?is)pleased to inform you that\s+(.+?)\s+has been awarded`),
		regexp.MustCompile(`(?is)Dear\s+Sir/\s*Madam:.*?inform you that\s+(.+?)\s+has been awarded`),
	}
	reAwardAmount = []*regexp.Regexp{
		regexp.MustCompile(`(?i)in the amount of\s+\$\s*([\d,]+\.?\d*)`),
		regexp.MustCompile(`(?i)amount of\s+\$\s*([\d,]+\.?\d*)`),
	}
	reAwardDate = []*regexp.Regexp{
		regexp.MustCompile(`(?i)NOTIFICATION OF AWARD\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?i)Award Letter\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(?im)^([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
	}
	reWBS         = regexp.MustCompile(`(?i)WBS\s+Element:\s*([^\n]+)`)
	reCountyLine  = regexp.MustCompile(`(?i)County:\s*([^\n]+)`)
	reDescription = regexp.MustCompile(`(?i)Description:\s*([^\n]+(?:\n[^\n]+)?)`)
)

func (awardLetterStrategy) Extract(_ context.Context, text string) (RawData, error) {
	data := RawData{
		"contract_number": awardContractNumber(text),
		"awarded_to":      awardedCompany(text),
		"awarded_amount":  awardedAmount(text),
		"award_date":      awardDate(text),
		"wbs_element":     strOrNil(firstMatch(text, reWBS)),
		"counties":        strOrNil(firstMatch(text, reCountyLine)),
		"description":     awardDescription(text),
	}
	return data, nil
}

func awardContractNumber(text string) any {
	if m := reAwardContract.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := reContractDA.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return nil
}

func awardedCompany(text string) any {
	for _, p := range reAwardCompany {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		company := normalizeSpaces(m[1])
		// Regexes can swallow a following address block; keep the name only.
		if i := strings.Index(company, "P.O."); i >= 0 {
			company = company[:i]
		} else if i := strings.Index(company, "PO Box"); i >= 0 {
			company = company[:i]
		}
		if company = strings.TrimSpace(company); company != "" {
			return company
		}
	}
	return nil
}

func awardedAmount(text string) any {
	for _, p := range reAwardAmount {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, ok := parseMoney(m[1]); ok {
				return v
			}
		}
	}
	return nil
}

func awardDate(text string) any {
	for _, p := range reAwardDate {
		if m := p.FindStringSubmatch(text); m != nil {
			if d := parseDate(m[1]); d != nil {
				return d
			}
		}
	}
	return nil
}

func awardDescription(text string) any {
	if m := reDescription.FindStringSubmatch(text); m != nil {
		desc := normalizeSpaces(m[1])
		if len(desc) > 500 {
			desc = desc[:500]
		}
		return desc
	}
	return nil
}
