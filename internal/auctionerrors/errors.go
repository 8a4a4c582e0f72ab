package auctionerrors

import "errors"

// Store-level errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrVersionConflict = errors.New("auction modified concurrently")
)

// Business rule errors
var (
	ErrInvalidAuction     = errors.New("invalid auction")
	ErrInvalidBid         = errors.New("invalid bid")
	ErrAuctionClosed      = errors.New("auction has ended")
	ErrSelfBid            = errors.New("cannot bid on own auction")
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
