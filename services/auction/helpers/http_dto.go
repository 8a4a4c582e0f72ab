package helpers

// Request/Response DTOs
type CreateAuctionRequest struct {
	ItemName    string  `json:"item_name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	StartingBid float64 `json:"starting_bid" binding:"min=0"`
	EndTime     string  `json:"end_time" binding:"required"`
}

type PlaceBidRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	BidID          string  `json:"bid_id"`
	Bidder         string  `json:"bidder"`
	BidderUsername string  `json:"bidder_username,omitempty"`
	Amount         float64 `json:"amount"`
	Time           string  `json:"time"`
}

type AuctionResponse struct {
	AuctionID             string        `json:"auction_id"`
	ItemName              string        `json:"item_name"`
	Description           string        `json:"description"`
	StartingBid           float64       `json:"starting_bid"`
	CurrentBid            float64       `json:"current_bid"`
	Seller                string        `json:"seller"`
	SellerUsername        string        `json:"seller_username,omitempty"`
	HighestBidder         string        `json:"highest_bidder,omitempty"`
	HighestBidderUsername string        `json:"highest_bidder_username,omitempty"`
	StartTime             string        `json:"start_time"`
	EndTime               string        `json:"end_time"`
	Status                string        `json:"status"`
	IsClosed              bool          `json:"is_closed"`
	Bids                  []BidResponse `json:"bids"`
}
