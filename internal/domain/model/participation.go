package model

import (
	"strings"
	"time"
)

// ParticipationRecord marks that a wallet has completed a contest, either by
// finishing explicitly or by running out the clock. The (ContestID,
// WalletAddress) pair is unique; the record is written once and never mutated.
type ParticipationRecord struct {
	ContestID     string    `json:"contestId"`
	WalletAddress string    `json:"walletAddress"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// CanonicalWallet normalizes a wallet address to the lowercase form used for
// every storage key and identity comparison.
func CanonicalWallet(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
