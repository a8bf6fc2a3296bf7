package domain

import (
	"strings"
)

// Table is a mongo collection name
type Table string

const (
	TableItems       Table = "items"
	TableAuctions    Table = "auctions"
	TableBids        Table = "bids"
	TableCommissions Table = "commissions"
	TableAccounts    Table = "accounts"
)

// UserId identifies an account
type UserId string

func (u UserId) String() string {
	return string(u)
}

func (u UserId) IsEmpty() bool {
	return len(u) == 0
}

func (u UserId) Equals(o UserId) bool {
	return string(u) == string(o)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
