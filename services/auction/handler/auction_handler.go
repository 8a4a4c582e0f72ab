package handler

import (
	"fmt"
	"net/http"
	"time"

	model "auction-marketplace/internal/models"
	"auction-marketplace/services/auction/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type AuctionServiceInterface interface {
	CreateAuction(sellerID, itemName, description string, startingBid float64, endTime time.Time) (model.Auction, error)
	PlaceBid(auctionID, bidderID string, amount float64) (model.Auction, error)
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions() ([]model.Auction, error)
	ListAuctionsBySeller(sellerID string) ([]model.Auction, error)
	ListAuctionsByBidder(bidderID string) ([]model.Auction, error)
}

// UsernameResolver maps user ids to display usernames for responses
type UsernameResolver interface {
	ResolveUsernames(userIDs []string) map[string]string
}

type AuctionHandler struct {
	service  AuctionServiceInterface
	resolver UsernameResolver
}

func NewAuctionHandler(service AuctionServiceInterface, resolver UsernameResolver) *AuctionHandler {
	return &AuctionHandler{service: service, resolver: resolver}
}

// ListAuctionsHandler handles GET /auctions
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	auctions, err := h.service.ListAuctions()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("ListAuctionsHandler: failed to list auctions", map[string]any{"error": err.Error()})
		return
	}

	resp := h.decorate(auctions)
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
	helpers.LogSuccess("ListAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")
	a, err := h.service.GetAuction(auctionID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionHandler: failed to get auction", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return
	}

	resp := h.decorate([]model.Auction{a})[0]
	utils.JSONResponse(c, http.StatusOK, resp, "auction retrieved successfully")
	helpers.LogSuccess("GetAuctionHandler", "auction retrieved successfully", map[string]any{
		"auction_id": a.AuctionID,
		"bid_count":  len(a.Bids),
	})
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	callerID := c.GetString("user_id")

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	endTime, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid end time provided: %w", err), "invalid end time provided")
		utils.Warn("CreateAuctionHandler: unparsable end time", map[string]any{"end_time": req.EndTime, "error": err.Error()})
		return
	}

	a, err := h.service.CreateAuction(callerID, req.ItemName, req.Description, req.StartingBid, endTime)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateAuctionHandler: failed to create auction", map[string]any{
			"seller": callerID,
			"error":  err.Error(),
		})
		return
	}

	resp := h.decorate([]model.Auction{a})[0]
	utils.JSONResponse(c, http.StatusCreated, resp, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id":   a.AuctionID,
		"seller":       callerID,
		"starting_bid": a.StartingBid,
		"end_time":     a.EndTime,
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bid
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	callerID := c.GetString("user_id")
	auctionID := c.Param("auction_id")

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	a, err := h.service.PlaceBid(auctionID, callerID, req.Amount)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"auction_id": auctionID,
			"bidder":     callerID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	resp := h.decorate([]model.Auction{a})[0]
	utils.JSONResponse(c, http.StatusOK, resp, "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id":  a.AuctionID,
		"bidder":      callerID,
		"current_bid": a.CurrentBid,
	})
}

// ListOwnAuctionsHandler handles GET /auctions/user/auctions
func (h *AuctionHandler) ListOwnAuctionsHandler(c *gin.Context) {
	callerID := c.GetString("user_id")

	auctions, err := h.service.ListAuctionsBySeller(callerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListOwnAuctionsHandler: failed to list auctions", map[string]any{"seller": callerID, "error": err.Error()})
		return
	}

	resp := h.decorate(auctions)
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
	helpers.LogSuccess("ListOwnAuctionsHandler", "auctions retrieved successfully", map[string]any{
		"seller": callerID,
		"count":  len(resp),
	})
}

// ListOwnBidsHandler handles GET /auctions/user/bids
func (h *AuctionHandler) ListOwnBidsHandler(c *gin.Context) {
	callerID := c.GetString("user_id")

	auctions, err := h.service.ListAuctionsByBidder(callerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListOwnBidsHandler: failed to list auctions", map[string]any{"bidder": callerID, "error": err.Error()})
		return
	}

	resp := h.decorate(auctions)
	utils.JSONResponse(c, http.StatusOK, resp, "auctions retrieved successfully")
	helpers.LogSuccess("ListOwnBidsHandler", "auctions retrieved successfully", map[string]any{
		"bidder": callerID,
		"count":  len(resp),
	})
}

// decorate resolves usernames and converts auctions to their API shape,
// deriving the closed flag at read time
func (h *AuctionHandler) decorate(auctions []model.Auction) []helpers.AuctionResponse {
	usernames := h.resolver.ResolveUsernames(helpers.CollectUserIDs(auctions))
	return helpers.ToAuctionResponses(auctions, time.Now().UTC(), usernames)
}
