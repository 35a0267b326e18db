package model

import "time"

type AccessState string

const (
	AccessIdle      AccessState = "Idle"
	AccessChecking  AccessState = "Checking"
	AccessGranted   AccessState = "Granted"
	AccessDenied    AccessState = "Denied"
	AccessError     AccessState = "Error"
	AccessCompleted AccessState = "Completed"
)

// ContestSession is the server-held view of one wallet's attempt at a
// contest. StartedAt is written exactly once, the first time access is
// granted, and is the single source of truth for the timer.
type ContestSession struct {
	ContestID     string    `json:"contestId"`
	WalletAddress string    `json:"walletAddress"`
	StartedAt     time.Time `json:"startedAt"`
	SecondsLeft   int64     `json:"secondsLeft"`
	Expired       bool      `json:"expired"`
}
