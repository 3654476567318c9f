package domain

// Table is a mongo collection name
type Table string

const (
	TableAuctions  Table = "auctions"
	TableBids      Table = "bids"
	TableAccounts  Table = "accounts"
	TableApprovals Table = "bidder_approvals"
)
