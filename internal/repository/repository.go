package repository

import (
	"fmt"
	"sort"
	"sync"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"
)

// AuctionStore defines auction document storage for the marketplace.
// UpdateAuction is a compare-and-swap on the aggregate version: it fails
// with ErrVersionConflict when the stored version differs from
// expectedVersion, which serializes the read-validate-append-persist
// sequence for a given auction id.
type AuctionStore interface {
	CreateAuction(a model.Auction) error
	GetAuction(auctionID string) (model.Auction, error)
	ListAuctions() ([]model.Auction, error)
	ListAuctionsBySeller(sellerID string) ([]model.Auction, error)
	ListAuctionsByBidder(bidderID string) ([]model.Auction, error)
	UpdateAuction(a model.Auction, expectedVersion int64) error
}

// UserStore defines user account storage
type UserStore interface {
	CreateUser(u model.User) error
	GetUserByID(userID string) (model.User, error)
	GetUserByUsername(username string) (model.User, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of
// AuctionStore and UserStore
type MemoryStore struct {
	mu        sync.RWMutex
	auctions  map[string]model.Auction // key: auctionID
	users     map[string]model.User    // key: userID
	usernames map[string]string        // key: username -> userID
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions:  make(map[string]model.Auction),
		users:     make(map[string]model.User),
		usernames: make(map[string]string),
	}
}

// CreateAuction stores a new auction document at version 1
func (s *MemoryStore) CreateAuction(a model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[a.AuctionID]; ok {
		return fmt.Errorf("create auction %s: id already exists", a.AuctionID)
	}

	a.Version = 1
	s.auctions[a.AuctionID] = copyAuction(a)
	return nil
}

// GetAuction returns one auction by id
func (s *MemoryStore) GetAuction(auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return copyAuction(a), nil
}

// ListAuctions returns all auctions sorted by start time descending
func (s *MemoryStore) ListAuctions() ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(model.Auction) bool { return true }), nil
}

// ListAuctionsBySeller returns all auctions listed by the given seller
func (s *MemoryStore) ListAuctionsBySeller(sellerID string) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(a model.Auction) bool { return a.Seller == sellerID }), nil
}

// ListAuctionsByBidder returns all auctions the given user has bid on
func (s *MemoryStore) ListAuctionsByBidder(bidderID string) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(a model.Auction) bool { return a.HasBidFrom(bidderID) }), nil
}

// UpdateAuction replaces an auction document if the stored version still
// matches expectedVersion, bumping the version on success
func (s *MemoryStore) UpdateAuction(a model.Auction, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.auctions[a.AuctionID]
	if !ok {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if stored.Version != expectedVersion {
		return fmt.Errorf("update auction %s: expected version %d, have %d: %w",
			a.AuctionID, expectedVersion, stored.Version, auctionerrors.ErrVersionConflict)
	}

	a.Version = expectedVersion + 1
	s.auctions[a.AuctionID] = copyAuction(a)
	return nil
}

// CreateUser stores a new user, enforcing username uniqueness
func (s *MemoryStore) CreateUser(u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[u.Username]; ok {
		return fmt.Errorf("create user %s: %w", u.Username, auctionerrors.ErrUsernameTaken)
	}

	s.users[u.UserID] = u
	s.usernames[u.Username] = u.UserID
	return nil
}

// GetUserByID returns one user by id
func (s *MemoryStore) GetUserByID(userID string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	return u, nil
}

// GetUserByUsername returns one user by username
func (s *MemoryStore) GetUserByUsername(username string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return model.User{}, fmt.Errorf("get user %q: %w", username, auctionerrors.ErrUserNotFound)
	}
	return s.users[id], nil
}

// collect returns copies of all auctions matching the filter, newest first.
// Caller must hold at least a read lock.
func (s *MemoryStore) collect(match func(model.Auction) bool) []model.Auction {
	out := make([]model.Auction, 0, len(s.auctions))
	for _, a := range s.auctions {
		if match(a) {
			out = append(out, copyAuction(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out
}

// copyAuction clones an auction including its bid history so callers never
// alias the stored slice
func copyAuction(a model.Auction) model.Auction {
	a.Bids = append([]model.Bid(nil), a.Bids...)
	return a
}
