package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested record is not exists
	ErrNotFound = errors.New("Your requested record is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your record already exist")
	// ErrInvalidInput will throw if the given request-body or params is not valid
	ErrInvalidInput = errors.New("Given param is not valid")

	// ErrUnauthorized will throw if the session is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden will throw if the session lacks required privilege
	ErrForbidden = errors.New("insufficient privilege")

	// ErrAuctionNotActive will throw when bidding on an item whose auction is not active
	ErrAuctionNotActive = errors.New("auction is not active")
	// ErrAuctionEnded will throw when bidding after the auction end date
	ErrAuctionEnded = errors.New("auction has ended")
	// ErrBidConflict will throw when a concurrent bid won the conditional item update; caller should retry
	ErrBidConflict = errors.New("item changed by a concurrent bid, retry")
	// ErrCommitFailed will throw when a post-validation write failed and compensation ran
	ErrCommitFailed = errors.New("bid commit failed")
)

// BidTooLowError reports the smallest acceptable amount alongside the rejection
type BidTooLowError struct {
	MinimumBid float64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid too low, minimum acceptable bid is %.2f", e.MinimumBid)
}

// AsBidTooLow unwraps err into *BidTooLowError if possible
func AsBidTooLow(err error) (*BidTooLowError, bool) {
	var e *BidTooLowError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
