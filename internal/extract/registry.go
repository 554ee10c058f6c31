package extract

import "github.com/openlettings/biddocs/constants"

// strategies is the closed lookup table from document type to strategy.
// The registry performs no extraction itself.
var strategies = map[constants.DocumentType]Strategy{
	constants.InvitationToBid: invitationStrategy{},
	constants.BidTabs:         bidTabsStrategy{},
	constants.AwardLetter:     awardLetterStrategy{},
	constants.ItemCReport:     itemCStrategy{},
	constants.BidSummary:      bidSummaryStrategy{},
	constants.BidsAsRead:      bidsAsReadStrategy{},
}

// ForType returns the strategy for a document type, or false when none
// exists (Unknown documents are skipped upstream).
func ForType(t constants.DocumentType) (Strategy, bool) {
	s, ok := strategies[t]
	return s, ok
}
