package models

import "time"

// User represents a registered participant in the marketplace
type User struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// AuctionStatus classifies an auction's lifecycle state
type AuctionStatus string

const (
	StatusActive AuctionStatus = "active"
	StatusEnded  AuctionStatus = "ended"
)

// Bid represents one accepted bid in an auction's history.
// Bids are immutable and live only inside their parent auction.
type Bid struct {
	BidID  string    `json:"bid_id"`
	Bidder string    `json:"bidder"`
	Amount float64   `json:"amount"`
	Time   time.Time `json:"time"`
}

// Auction is the aggregate root for one listed item and its bidding state.
// All writes to the bid history go through the aggregate.
type Auction struct {
	AuctionID     string        `json:"auction_id"`
	ItemName      string        `json:"item_name"`
	Description   string        `json:"description"`
	StartingBid   float64       `json:"starting_bid"`
	CurrentBid    float64       `json:"current_bid"`
	Seller        string        `json:"seller"`
	HighestBidder string        `json:"highest_bidder,omitempty"`
	StartTime     time.Time     `json:"start_time"`
	EndTime       time.Time     `json:"end_time"`
	Status        AuctionStatus `json:"status"`
	Bids          []Bid         `json:"bids"`

	// Version counts accepted writes against this aggregate. Stores use it
	// for conditional updates; it is never part of API payloads.
	Version int64 `json:"-"`
}

// IsClosed reports whether the auction can no longer accept bids at the
// given instant. Pure function of (status, endTime, now).
func (a Auction) IsClosed(now time.Time) bool {
	return !now.Before(a.EndTime) || a.Status == StatusEnded
}

// DeriveFromBids recomputes CurrentBid and HighestBidder from the history
// tail. Callers applying a bid must use this instead of trusting the
// denormalized fields of a previously read copy.
func (a *Auction) DeriveFromBids() {
	if len(a.Bids) == 0 {
		a.CurrentBid = a.StartingBid
		a.HighestBidder = ""
		return
	}
	last := a.Bids[len(a.Bids)-1]
	a.CurrentBid = last.Amount
	a.HighestBidder = last.Bidder
}

// HasBidFrom reports whether the given user appears in the bid history
func (a Auction) HasBidFrom(userID string) bool {
	for _, b := range a.Bids {
		if b.Bidder == userID {
			return true
		}
	}
	return false
}
