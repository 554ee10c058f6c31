package constants

// DocumentType identifies the kind of bid document a PDF contains.
// The type drives both extractor selection and mapping-schema lookup.
type DocumentType string

// Stable values (stored verbatim in results and state files).
const (
	InvitationToBid DocumentType = "invitation_to_bid"
	BidTabs         DocumentType = "bid_tabs"
	AwardLetter     DocumentType = "award_letter"
	ItemCReport     DocumentType = "item_c_report"
	BidSummary      DocumentType = "bid_summary"
	BidsAsRead      DocumentType = "bids_as_read"
	Unknown         DocumentType = "unknown"
)

// DocumentTypes lists every known type except Unknown.
var DocumentTypes = []DocumentType{
	InvitationToBid,
	BidTabs,
	AwardLetter,
	ItemCReport,
	BidSummary,
	BidsAsRead,
}
