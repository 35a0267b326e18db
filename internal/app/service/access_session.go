package service

import (
	"fmt"

	"cp_arena/internal/domain/model"
)

// AccessSession is the per-(wallet, contest) state machine that gates entry
// to a contest:
//
//	Idle -> Checking -> Granted | Denied(reason) | Error(reason)
//	Granted -> Completed   (timer expiry or explicit finish)
//	Granted -> Idle        (wallet disconnect; re-entry re-checks)
//
// Denied means the ledger legitimately blocks re-entry; Error means the
// check itself failed and a retry is reasonable. Granting alone leaves no
// ledger trace — participation is billed at completion, not at entry.
type AccessSession struct {
	state  model.AccessState
	reason string
}

func NewAccessSession() *AccessSession {
	return &AccessSession{state: model.AccessIdle}
}

func (s *AccessSession) State() model.AccessState { return s.state }

// Reason explains a Denied or Error state; empty otherwise.
func (s *AccessSession) Reason() string { return s.reason }

func (s *AccessSession) transition(from, to model.AccessState) error {
	if s.state != from {
		return fmt.Errorf("invalid access transition %s -> %s (current state %s)", from, to, s.state)
	}
	s.state = to
	return nil
}

// Connect begins the eligibility check for a freshly connected wallet.
func (s *AccessSession) Connect() error {
	s.reason = ""
	return s.transition(model.AccessIdle, model.AccessChecking)
}

func (s *AccessSession) Grant() error {
	return s.transition(model.AccessChecking, model.AccessGranted)
}

func (s *AccessSession) Deny(reason string) error {
	if err := s.transition(model.AccessChecking, model.AccessDenied); err != nil {
		return err
	}
	s.reason = reason
	return nil
}

// Fail marks an infrastructure failure during the check, distinct from a
// legitimate denial.
func (s *AccessSession) Fail(reason string) error {
	if err := s.transition(model.AccessChecking, model.AccessError); err != nil {
		return err
	}
	s.reason = reason
	return nil
}

// Complete closes out a granted session on expiry or explicit finish.
func (s *AccessSession) Complete() error {
	return s.transition(model.AccessGranted, model.AccessCompleted)
}

// Disconnect is the only backward edge: a granted wallet that disconnects
// returns to Idle and must re-check to enter again.
func (s *AccessSession) Disconnect() error {
	return s.transition(model.AccessGranted, model.AccessIdle)
}
