// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SplitLedger Contributors

package auth

import "time"

// Lockout policy constants. Fixed rather than configurable so the security
// contract stays auditable.
const (
	// LockoutThreshold is the number of consecutive failures that locks an
	// account.
	LockoutThreshold = 5

	// LockoutDuration is how long a lock holds once triggered.
	LockoutDuration = 2 * time.Hour

	// WarningBand is the largest attempts-remaining count that may be
	// disclosed to the caller. Higher counts are withheld to limit what a
	// guesser learns per attempt.
	WarningBand = 2
)

// LockState classifies an account's security dimension at a point in time.
type LockState int

const (
	// LockStateOpen means login attempts may proceed.
	LockStateOpen LockState = iota
	// LockStateLocked means attempts are rejected until the lock elapses.
	LockStateLocked
)

// Evaluation is the result of re-deriving lock state at read time.
type Evaluation struct {
	State LockState

	// UnlockAt and Remaining are set when State is LockStateLocked.
	UnlockAt  time.Time
	Remaining time.Duration

	// NeedsClear signals a lazy unlock: the stored lock has elapsed and the
	// caller must commit cleared counters before proceeding.
	NeedsClear bool
}

// FailureDecision is the outcome of a recorded login failure.
type FailureDecision struct {
	FailedAttempts int
	ShouldLock     bool
	LockUntil      time.Time

	// AttemptsRemaining is the disclosed hint, or -1 when outside the
	// warning band.
	AttemptsRemaining int
}

// SuccessState is the security state to commit after a successful login.
type SuccessState struct {
	FailedAttempts int
	Locked         bool
	LockUntil      *time.Time
	LastLoginAt    time.Time
}

// Evaluate re-derives the lock state of an account at the given time. A
// stored lock whose deadline has passed is reported as open with NeedsClear
// set; the stored state itself is not mutated here.
func Evaluate(account *Account, now time.Time) Evaluation {
	if !account.Locked {
		return Evaluation{State: LockStateOpen}
	}
	if account.LockUntil == nil {
		// Locked flag without a deadline cannot be produced here; treat it
		// as an elapsed lock so the stale row self-heals on commit.
		return Evaluation{State: LockStateOpen, NeedsClear: true}
	}
	if now.Before(*account.LockUntil) {
		return Evaluation{
			State:     LockStateLocked,
			UnlockAt:  *account.LockUntil,
			Remaining: account.LockUntil.Sub(now),
		}
	}
	return Evaluation{State: LockStateOpen, NeedsClear: true}
}

// OnFailure evaluates a just-recorded failure. failedAttempts is the
// post-increment count, already committed by the caller's store.
func OnFailure(failedAttempts int, now time.Time) FailureDecision {
	d := FailureDecision{
		FailedAttempts:    failedAttempts,
		AttemptsRemaining: -1,
	}
	if failedAttempts >= LockoutThreshold {
		d.ShouldLock = true
		d.LockUntil = now.Add(LockoutDuration)
		return d
	}
	if remaining := LockoutThreshold - failedAttempts; remaining <= WarningBand {
		d.AttemptsRemaining = remaining
	}
	return d
}

// OnSuccess returns the fully rehabilitated security state.
func OnSuccess(now time.Time) SuccessState {
	return SuccessState{LastLoginAt: now}
}
