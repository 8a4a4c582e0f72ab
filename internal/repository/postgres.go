package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"auction-marketplace/internal/auctionerrors"
	model "auction-marketplace/internal/models"

	"github.com/lib/pq"
)

// PostgresStore persists auction aggregates as one JSONB document per row,
// keeping the bid history embedded in the document. The version column
// backs the conditional update that AuctionStore requires.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool, verifies connectivity and
// ensures the schema exists
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS auctions (
			auction_id TEXT PRIMARY KEY,
			seller     TEXT NOT NULL,
			start_time TIMESTAMPTZ NOT NULL,
			version    BIGINT NOT NULL,
			doc        JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS auctions_seller_idx ON auctions (seller);
		CREATE INDEX IF NOT EXISTS auctions_bids_idx ON auctions USING GIN ((doc -> 'bids'));

		CREATE TABLE IF NOT EXISTS users (
			user_id       TEXT PRIMARY KEY,
			username      TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL
		);
	`)
	return err
}

// Close releases the underlying connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// CreateAuction inserts a new auction document at version 1
func (s *PostgresStore) CreateAuction(a model.Auction) error {
	a.Version = 1
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal auction %s: %w", a.AuctionID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO auctions (auction_id, seller, start_time, version, doc)
		VALUES ($1, $2, $3, $4, $5)
	`, a.AuctionID, a.Seller, a.StartTime, a.Version, doc)
	if err != nil {
		return fmt.Errorf("insert auction %s: %w", a.AuctionID, err)
	}
	return nil
}

// GetAuction returns one auction by id
func (s *PostgresStore) GetAuction(auctionID string) (model.Auction, error) {
	row := s.db.QueryRow(`SELECT version, doc FROM auctions WHERE auction_id = $1`, auctionID)

	a, err := scanAuction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	if err != nil {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return a, nil
}

// ListAuctions returns all auctions sorted by start time descending
func (s *PostgresStore) ListAuctions() ([]model.Auction, error) {
	return s.queryAuctions(`SELECT version, doc FROM auctions ORDER BY start_time DESC`)
}

// ListAuctionsBySeller returns all auctions listed by the given seller
func (s *PostgresStore) ListAuctionsBySeller(sellerID string) ([]model.Auction, error) {
	return s.queryAuctions(`
		SELECT version, doc FROM auctions
		WHERE seller = $1
		ORDER BY start_time DESC
	`, sellerID)
}

// ListAuctionsByBidder returns all auctions whose embedded bid history
// contains the given bidder
func (s *PostgresStore) ListAuctionsByBidder(bidderID string) ([]model.Auction, error) {
	return s.queryAuctions(`
		SELECT version, doc FROM auctions
		WHERE doc -> 'bids' @> jsonb_build_array(jsonb_build_object('bidder', $1::text))
		ORDER BY start_time DESC
	`, bidderID)
}

// UpdateAuction replaces the auction document only if the stored version
// still matches expectedVersion
func (s *PostgresStore) UpdateAuction(a model.Auction, expectedVersion int64) error {
	a.Version = expectedVersion + 1
	doc, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal auction %s: %w", a.AuctionID, err)
	}

	res, err := s.db.Exec(`
		UPDATE auctions SET version = $1, doc = $2
		WHERE auction_id = $3 AND version = $4
	`, a.Version, doc, a.AuctionID, expectedVersion)
	if err != nil {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update auction %s: %w", a.AuctionID, err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM auctions WHERE auction_id = $1)`, a.AuctionID).Scan(&exists); err != nil {
			return fmt.Errorf("update auction %s: %w", a.AuctionID, err)
		}
		if !exists {
			return fmt.Errorf("update auction %s: %w", a.AuctionID, auctionerrors.ErrAuctionNotFound)
		}
		return fmt.Errorf("update auction %s: expected version %d: %w",
			a.AuctionID, expectedVersion, auctionerrors.ErrVersionConflict)
	}
	return nil
}

// CreateUser inserts a new user, mapping the unique-violation code to the
// username-taken sentinel
func (s *PostgresStore) CreateUser(u model.User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (user_id, username, password_hash)
		VALUES ($1, $2, $3)
	`, u.UserID, u.Username, u.PasswordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("create user %s: %w", u.Username, auctionerrors.ErrUsernameTaken)
		}
		return fmt.Errorf("create user %s: %w", u.Username, err)
	}
	return nil
}

// GetUserByID returns one user by id
func (s *PostgresStore) GetUserByID(userID string) (model.User, error) {
	var u model.User
	err := s.db.QueryRow(`
		SELECT user_id, username, password_hash FROM users WHERE user_id = $1
	`, userID).Scan(&u.UserID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return u, nil
}

// GetUserByUsername returns one user by username
func (s *PostgresStore) GetUserByUsername(username string) (model.User, error) {
	var u model.User
	err := s.db.QueryRow(`
		SELECT user_id, username, password_hash FROM users WHERE username = $1
	`, username).Scan(&u.UserID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("get user %q: %w", username, auctionerrors.ErrUserNotFound)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}

func (s *PostgresStore) queryAuctions(query string, args ...any) ([]model.Auction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query auctions: %w", err)
	}
	defer rows.Close()

	auctions := []model.Auction{}
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan auction: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate auctions: %w", err)
	}
	return auctions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuction(row rowScanner) (model.Auction, error) {
	var (
		version int64
		doc     []byte
	)
	if err := row.Scan(&version, &doc); err != nil {
		return model.Auction{}, err
	}

	var a model.Auction
	if err := json.Unmarshal(doc, &a); err != nil {
		return model.Auction{}, err
	}
	a.Version = version
	if a.Bids == nil {
		a.Bids = []model.Bid{}
	}
	return a, nil
}
