// Package srs implements the spaced-repetition scheduler, an SM-2 variant
// adapted per card status. Apply is the sole transition function for review
// state; nothing else may write a card's status.
package srs

import (
	"math"
	"time"
)

const (
	// DefaultEase is the ease factor assigned to a card on first exposure.
	DefaultEase = 2.5
	// MinEase is the floor below which the ease factor never drops.
	MinEase = 1.3

	// RelearnDelay is how soon a failed card comes back. A zero-day interval
	// means "due same day, re-queue within session".
	RelearnDelay = 10 * time.Minute
)

// State is the scheduling state of one (user, card) pair.
type State struct {
	Status      Status
	EaseFactor  float64
	Interval    int // days until the next review
	Repetitions int
}

// NewState returns the state of a card that has never been graded.
func NewState() State {
	return State{Status: StatusNew, EaseFactor: DefaultEase}
}

// Result is the outcome of grading a card.
type Result struct {
	State
	NextReviewAt   time.Time
	LastReviewedAt time.Time
}

// Apply computes the next review state from a grading outcome. It is a pure
// function: no I/O, never fails for a valid grade. Callers must reject
// invalid grades before invoking it.
//
// The ease factor is clamped to MinEase on every step, so repeated failures
// cannot drive it unbounded-negative. Intervals are non-negative whole days;
// zero only ever results from an "again" grade.
func Apply(s State, g Grade, now time.Time) Result {
	switch g {
	case Again:
		if s.Status == StatusReview {
			s.Status = StatusRelearning
		} else {
			s.Status = StatusLearning
		}
		s.Repetitions = 0
		s.Interval = 0
		s.EaseFactor = clampEase(s.EaseFactor - 0.20)

	case Hard:
		s.Interval = max(1, round(float64(s.Interval)*1.2))
		s.EaseFactor = clampEase(s.EaseFactor - 0.15)
		if s.Status == StatusReview {
			s.Repetitions++
		} else if s.Status == StatusNew {
			s.Status = StatusLearning
		}

	case Good:
		// Classic SM-2 graduation ladder: 1 day on the first success, 6 on
		// the second, interval*ease afterwards.
		switch s.Repetitions {
		case 0:
			s.Interval = 1
		case 1:
			s.Interval = 6
		default:
			s.Interval = max(1, round(float64(s.Interval)*s.EaseFactor))
		}
		s.Status = StatusReview
		s.Repetitions++

	case Easy:
		s.Interval = max(1, round(float64(s.Interval)*s.EaseFactor*1.3))
		s.EaseFactor = s.EaseFactor + 0.15
		s.Status = StatusReview
		s.Repetitions++
	}

	next := now.Add(time.Duration(s.Interval) * 24 * time.Hour)
	if s.Interval == 0 {
		next = now.Add(RelearnDelay)
	}

	return Result{
		State:          s,
		NextReviewAt:   next,
		LastReviewedAt: now,
	}
}

func clampEase(ef float64) float64 {
	if ef < MinEase {
		return MinEase
	}
	return ef
}

func round(v float64) int {
	return int(math.Round(v))
}
