package model

import (
	"hms/shared/model"
	"slices"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldSerial     = "serial"
	FieldCustomerID = "customer_id"
	FieldCheckin    = "checkin"
	FieldCheckout   = "checkout"
	FieldRoomNumber = "room_number"
	FieldStatus     = "status"
	FieldModifiedAt = "modified_at"

	ConstraintNoOverlap  = "bookings_no_overlap"
	ConstraintCustomerFK = "bookings_customer_id_fkey"
	ConstraintDates      = "bookings_dates_check"
)

// Status is the lifecycle state of a booking.
type Status string

const (
	StatusNotArrived Status = "not_arrived"
	StatusCheckedIn  Status = "checkedin"
	StatusCheckedOut Status = "checkedout"
)

// Lifecycle moves forward only.
var validTransitions = map[Status][]Status{
	StatusNotArrived: {StatusCheckedIn},
	StatusCheckedIn:  {StatusCheckedOut},
	StatusCheckedOut: {},
}

func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(validTransitions[s], target)
}

func (s Status) String() string {
	return string(s)
}

// Outcome codes returned by the lifecycle operations.
const (
	OutcomeBooked           = "BOOKED"
	OutcomeCheckedIn        = "CHECKED_IN"
	OutcomeCheckedOut       = "CHECKED_OUT"
	OutcomeRoomUnavailable  = "ROOM_UNAVAILABLE"
	OutcomeNoPendingBooking = "NO_PENDING_BOOKING"
	OutcomeTooEarly         = "TOO_EARLY"
	OutcomeNoActiveCheckin  = "NO_ACTIVE_CHECKIN"
)

// Operation names used for metrics and events.
const (
	OperationCreate   = "create"
	OperationCheckIn  = "checkin"
	OperationCheckOut = "checkout"
)

type Booking struct {
	Serial     int64     `db:"serial"      insert:"-"`
	CustomerID string    `db:"customer_id"`
	Checkin    time.Time `db:"checkin"`
	Checkout   time.Time `db:"checkout"`
	RoomNumber int       `db:"room_number"`
	Status     Status    `db:"status"`
	model.Metadata
}

// StatusUpdate is the set of columns a lifecycle transition may change. Checkout is a
// calendar date string and is left untouched when empty.
type StatusUpdate struct {
	Status   Status `db:"status"`
	Checkout string `db:"checkout"`
}
