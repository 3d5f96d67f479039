package domain

import (
	"fmt"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusWaiting  BookingStatus = "WAITING"
	BookingStatusApproved BookingStatus = "APPROVED"
	BookingStatusRejected BookingStatus = "REJECTED"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusWaiting, BookingStatusApproved, BookingStatusRejected:
		return true
	}
	return false
}

// Active reports whether a booking in this status still occupies its item.
func (s BookingStatus) Active() bool {
	return s == BookingStatusWaiting || s == BookingStatusApproved
}

// Transition returns the status reached when the owner decides on a booking.
// Only WAITING bookings can be decided; APPROVED and REJECTED are terminal.
func (s BookingStatus) Transition(approved bool) (BookingStatus, error) {
	if s != BookingStatusWaiting {
		return s, NewInvalidState("booking already processed")
	}
	if approved {
		return BookingStatusApproved, nil
	}
	return BookingStatusRejected, nil
}

type Booking struct {
	ID        int64         `json:"id" db:"id"`
	StartTime time.Time     `json:"start" db:"start_time"`
	EndTime   time.Time     `json:"end" db:"end_time"`
	ItemID    int64         `json:"item_id" db:"item_id"`
	BookerID  int64         `json:"booker_id" db:"booker_id"`
	Status    BookingStatus `json:"status" db:"status"`

	// Populated by the repositories on reads.
	Item   Item `json:"item" db:"item"`
	Booker User `json:"booker" db:"booker"`
}

// Overlaps applies the half-open interval test against another booking's range.
// Bookings that merely touch (one ends exactly when the other starts) do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return start.Before(b.EndTime) && end.After(b.StartTime)
}

// ValidateBookingPeriod checks the requested range. rejectPastStart enables the
// optional rule that a booking cannot start before now.
func ValidateBookingPeriod(start, end, now time.Time, rejectPastStart bool) error {
	if start.IsZero() || end.IsZero() {
		return NewInvalidArgument("booking start and end are required")
	}
	if start.Equal(end) {
		return NewInvalidArgument("booking start cannot equal booking end")
	}
	if end.Before(start) {
		return NewInvalidArgument("booking end must be after booking start")
	}
	if rejectPastStart && start.Before(now) {
		return NewInvalidArgument("booking cannot start in the past")
	}
	return nil
}

// BookingState selects bookings for the booker and owner listings.
type BookingState string

const (
	BookingStateAll      BookingState = "ALL"
	BookingStateCurrent  BookingState = "CURRENT"
	BookingStatePast     BookingState = "PAST"
	BookingStateFuture   BookingState = "FUTURE"
	BookingStateWaiting  BookingState = "WAITING"
	BookingStateRejected BookingState = "REJECTED"
)

var bookingStates = []BookingState{
	BookingStateAll,
	BookingStateCurrent,
	BookingStatePast,
	BookingStateFuture,
	BookingStateWaiting,
	BookingStateRejected,
}

// ParseBookingState parses a listing state; an empty value means ALL.
// Matching is case-insensitive.
func ParseBookingState(raw string) (BookingState, error) {
	if strings.TrimSpace(raw) == "" {
		return BookingStateAll, nil
	}
	upper := strings.ToUpper(strings.TrimSpace(raw))
	for _, s := range bookingStates {
		if string(s) == upper {
			return s, nil
		}
	}
	return "", NewInvalidArgument(fmt.Sprintf("Unknown state: %s", raw))
}

// Matches reports whether b belongs to the listing state at instant now.
//
//	CURRENT  start < now < end
//	PAST     end < now
//	FUTURE   start > now
//	WAITING  status WAITING
//	REJECTED status REJECTED
func (s BookingState) Matches(b *Booking, now time.Time) bool {
	switch s {
	case BookingStateCurrent:
		return b.StartTime.Before(now) && b.EndTime.After(now)
	case BookingStatePast:
		return b.EndTime.Before(now)
	case BookingStateFuture:
		return b.StartTime.After(now)
	case BookingStateWaiting:
		return b.Status == BookingStatusWaiting
	case BookingStateRejected:
		return b.Status == BookingStatusRejected
	default:
		return true
	}
}

// CanComment reports whether a booking proves a completed rental of itemID by its booker.
func (b *Booking) CanComment(itemID int64, now time.Time) bool {
	return b.ItemID == itemID && b.Status == BookingStatusApproved && !b.EndTime.After(now)
}
