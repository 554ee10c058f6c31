package extract

import (
	"context"
	"regexp"

	"github.com/openlettings/biddocs/constants"
)

// invitationStrategy extracts letting details from Invitation to Bid
// notices.
type invitationStrategy struct{}

func (invitationStrategy) Type() constants.DocumentType { return constants.InvitationToBid }
func (invitationStrategy) Name() string                 { return "invitation_to_bid" }

var (
	reInvWBS = []*regexp.Regexp{
		regexp.MustCompile(`(?i)WBS Element:\s*([^\n]+)`),
		regexp.MustCompile(`(?i)WBS\s*Element\s*:?\s*([^\n]+)`),
	}
	reInvCounties = []*regexp.Regexp{
		regexp.MustCompile(`(?i)in\s+([A-Za-z,\s&]+)\s+Count(?:y|ies)`),
		regexp.MustCompile(`(?i)County:\s*([^\n]+)`),
	}
	reInvDescription = []*regexp.Regexp{
		regexp.MustCompile(`(?i)DA\d{5}\s*[–-]\s*([^\n]+(?:\n[^\n]+)?)`),
		regexp.MustCompile(`(?i)Description:\s*([^\n]+)`),
	}
	reInvDateAvailable  = regexp.MustCompile(`(?i)Date of Availability[^\n]*?is\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`)
	reInvCompletionDate = regexp.MustCompile(`(?i)Completion Date[^\n]*?is\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`)
	reInvMBEGoal        = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Minority Business Enterprise Goal\s*=\s*(\d+\.?\d*)%?`),
		regexp.MustCompile(`(?i)MBE Goal\s*=\s*(\d+\.?\d*)%?`),
	}
	reInvWBEGoal = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Women Business Enterprise Goal\s*=\s*(\d+\.?\d*)%?`),
		regexp.MustCompile(`(?i)WBE Goal\s*=\s*(\d+\.?\d*)%?`),
	}
	reInvCombinedGoal = regexp.MustCompile(`(?i)Combined MBE/WBE Goal\s*=\s*(\d+\.?\d*)%?`)
	reInvBidOpening   = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Bid Opening will be at\s+(\d{1,2}:\d{2}\s*[ap]m)\s+on\s+[A-Za-z]+day\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
		regexp.MustCompile(`(\d{1,2}:\d{2}\s*[AP]M)\s+([A-Za-z]+\s+\d{1,2},?\s+\d{4})`),
	}
)

func (invitationStrategy) Extract(_ context.Context, text string) (RawData, error) {
	data := RawData{
		"contract_number":  findContractNumber(text),
		"wbs_element":      strOrNil(firstMatch(text, reInvWBS...)),
		"counties":         strOrNil(firstMatch(text, reInvCounties...)),
		"description":      invitationDescription(text),
		"date_available":   matchedDate(text, reInvDateAvailable),
		"completion_date":  matchedDate(text, reInvCompletionDate),
		"mbe_goal":         floatOrNil(firstMatch(text, reInvMBEGoal...)),
		"wbe_goal":         floatOrNil(firstMatch(text, reInvWBEGoal...)),
		"combined_goal":    floatOrNil(firstMatch(text, reInvCombinedGoal)),
		"bid_opening_date": invitationBidOpening(text),
	}
	return data, nil
}

func invitationDescription(text string) any {
	for _, p := range reInvDescription {
		if m := p.FindStringSubmatch(text); m != nil {
			desc := normalizeSpaces(m[1])
			if len(desc) > 500 {
				desc = desc[:500]
			}
			return desc
		}
	}
	return nil
}

func matchedDate(text string, p *regexp.Regexp) any {
	if m := p.FindStringSubmatch(text); m != nil {
		return parseDate(m[1])
	}
	return nil
}

func invitationBidOpening(text string) any {
	for _, p := range reInvBidOpening {
		if m := p.FindStringSubmatch(text); m != nil {
			if dt := parseDateTime(m[2], m[1]); dt != nil {
				return dt
			}
		}
	}
	return nil
}
