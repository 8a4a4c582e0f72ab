package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, auctionerrors.ErrAuctionNotFound):
		return http.StatusNotFound, "auction not found"
	case errors.Is(err, auctionerrors.ErrAuctionClosed):
		return http.StatusBadRequest, "auction has ended"
	case errors.Is(err, auctionerrors.ErrSelfBid):
		return http.StatusBadRequest, "cannot bid on your own auction"
	case errors.Is(err, auctionerrors.ErrBidTooLow):
		return http.StatusBadRequest, "bid must be higher than current bid"
	case errors.Is(err, auctionerrors.ErrInvalidAuction), errors.Is(err, auctionerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid request details"
	case errors.Is(err, auctionerrors.ErrVersionConflict):
		return http.StatusConflict, "auction is receiving concurrent bids, please retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// CollectUserIDs gathers every user id referenced by the given auctions,
// for username resolution
func CollectUserIDs(auctions []model.Auction) []string {
	ids := make([]string, 0, len(auctions)*2)
	for _, a := range auctions {
		ids = append(ids, a.Seller)
		if a.HighestBidder != "" {
			ids = append(ids, a.HighestBidder)
		}
		for _, b := range a.Bids {
			ids = append(ids, b.Bidder)
		}
	}
	return ids
}

// ToAuctionResponse converts an auction aggregate to its API shape, with
// the closed flag derived at read time and ids resolved to usernames
func ToAuctionResponse(a model.Auction, now time.Time, usernames map[string]string) AuctionResponse {
	bids := make([]BidResponse, 0, len(a.Bids))
	for _, b := range a.Bids {
		bids = append(bids, BidResponse{
			BidID:          b.BidID,
			Bidder:         b.Bidder,
			BidderUsername: usernames[b.Bidder],
			Amount:         b.Amount,
			Time:           b.Time.UTC().Format(time.RFC3339),
		})
	}

	return AuctionResponse{
		AuctionID:             a.AuctionID,
		ItemName:              a.ItemName,
		Description:           a.Description,
		StartingBid:           a.StartingBid,
		CurrentBid:            a.CurrentBid,
		Seller:                a.Seller,
		SellerUsername:        usernames[a.Seller],
		HighestBidder:         a.HighestBidder,
		HighestBidderUsername: usernames[a.HighestBidder],
		StartTime:             a.StartTime.UTC().Format(time.RFC3339),
		EndTime:               a.EndTime.UTC().Format(time.RFC3339),
		Status:                string(a.Status),
		IsClosed:              a.IsClosed(now),
		Bids:                  bids,
	}
}

// ToAuctionResponses converts a list of auctions, preserving order
func ToAuctionResponses(auctions []model.Auction, now time.Time, usernames map[string]string) []AuctionResponse {
	out := make([]AuctionResponse, 0, len(auctions))
	for _, a := range auctions {
		out = append(out, ToAuctionResponse(a, now, usernames))
	}
	return out
}
