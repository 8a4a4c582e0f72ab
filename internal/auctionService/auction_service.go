package auction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auction-marketplace/internal/auctionerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/utils"
)

// defaultMaxBidRetries bounds the conflict-retry loop when no explicit
// budget is configured
const defaultMaxBidRetries = 3

// AuctionService defines the business logic for listing items and bidding
type AuctionService struct {
	store      repository.AuctionStore
	maxRetries int
	now        func() time.Time // injected clock, real time outside tests
}

// NewAuctionService creates a new AuctionService instance
func NewAuctionService(store repository.AuctionStore, maxRetries int) *AuctionService {
	if maxRetries <= 0 {
		maxRetries = defaultMaxBidRetries
	}
	return &AuctionService{
		store:      store,
		maxRetries: maxRetries,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateAuction validates and stores a new auction listing.
// An end time already in the past is accepted: the listing is simply born
// closed and rejects every bid.
func (s *AuctionService) CreateAuction(sellerID, itemName, description string, startingBid float64, endTime time.Time) (models.Auction, error) {
	itemName = strings.TrimSpace(itemName)
	description = strings.TrimSpace(description)

	if sellerID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing seller", auctionerrors.ErrInvalidAuction)
	}
	if itemName == "" || description == "" {
		return models.Auction{}, fmt.Errorf("service: %w - item name and description are required", auctionerrors.ErrInvalidAuction)
	}
	if startingBid < 0 {
		return models.Auction{}, fmt.Errorf("service: %w - negative starting bid", auctionerrors.ErrInvalidAuction)
	}
	if endTime.IsZero() {
		return models.Auction{}, fmt.Errorf("service: %w - missing end time", auctionerrors.ErrInvalidAuction)
	}

	a := models.Auction{
		AuctionID:   utils.GenerateID(),
		ItemName:    itemName,
		Description: description,
		StartingBid: startingBid,
		CurrentBid:  startingBid,
		Seller:      sellerID,
		StartTime:   s.now(),
		EndTime:     endTime.UTC(),
		Status:      models.StatusActive,
		Bids:        []models.Bid{},
	}

	if err := s.store.CreateAuction(a); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for seller %s: %w", sellerID, err)
	}

	a.Version = 1
	return a, nil
}

// PlaceBid validates and applies one bid against one auction.
//
// The load-validate-append-persist sequence runs against a conditional
// update keyed on the aggregate version; a concurrent writer makes the
// update fail, and the whole sequence is re-run against fresh state up to
// the retry budget. Validation always happens before mutation, so a
// rejected bid leaves no observable change.
func (s *AuctionService) PlaceBid(auctionID, bidderID string, amount float64) (models.Auction, error) {
	if auctionID == "" || bidderID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing auctionID or bidderID", auctionerrors.ErrInvalidBid)
	}

	var conflict error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		a, err := s.store.GetAuction(auctionID)
		if err != nil {
			return models.Auction{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
		}

		// Never trust the denormalized fields of the copy we just read.
		a.DeriveFromBids()

		now := s.now()
		if a.IsClosed(now) {
			return models.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrAuctionClosed)
		}
		if a.Seller == bidderID {
			return models.Auction{}, fmt.Errorf("service: %w", auctionerrors.ErrSelfBid)
		}
		if amount <= a.CurrentBid {
			return models.Auction{}, fmt.Errorf("service: %w - current bid is %.2f", auctionerrors.ErrBidTooLow, a.CurrentBid)
		}

		a.Bids = append(a.Bids, models.Bid{
			BidID:  utils.GenerateID(),
			Bidder: bidderID,
			Amount: amount,
			Time:   now,
		})
		a.CurrentBid = amount
		a.HighestBidder = bidderID

		err = s.store.UpdateAuction(a, a.Version)
		if err == nil {
			a.Version++
			return a, nil
		}
		if errors.Is(err, auctionerrors.ErrVersionConflict) {
			conflict = err
			continue
		}
		return models.Auction{}, fmt.Errorf("service: failed to record bid on auction %s by user %s: %w", auctionID, bidderID, err)
	}

	return models.Auction{}, fmt.Errorf("service: bid on auction %s by user %s lost %d races: %w",
		auctionID, bidderID, s.maxRetries, conflict)
}

// GetAuction returns one auction with its full bid history
func (s *AuctionService) GetAuction(auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidAuction)
	}

	a, err := s.store.GetAuction(auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// ListAuctions returns all auctions, newest first
func (s *AuctionService) ListAuctions() ([]models.Auction, error) {
	auctions, err := s.store.ListAuctions()
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions: %w", err)
	}
	return auctions, nil
}

// ListAuctionsBySeller returns all auctions listed by a user
func (s *AuctionService) ListAuctionsBySeller(sellerID string) ([]models.Auction, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("service: %w - empty seller ID", auctionerrors.ErrInvalidAuction)
	}

	auctions, err := s.store.ListAuctionsBySeller(sellerID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions for seller %s: %w", sellerID, err)
	}
	return auctions, nil
}

// ListAuctionsByBidder returns all auctions a user has bid on
func (s *AuctionService) ListAuctionsByBidder(bidderID string) ([]models.Auction, error) {
	if bidderID == "" {
		return nil, fmt.Errorf("service: %w - empty bidder ID", auctionerrors.ErrInvalidAuction)
	}

	auctions, err := s.store.ListAuctionsByBidder(bidderID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list auctions for bidder %s: %w", bidderID, err)
	}
	return auctions, nil
}
