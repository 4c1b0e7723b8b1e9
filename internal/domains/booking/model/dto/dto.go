package dto

import (
	"hms/internal/domains/booking/model"
	customerDto "hms/internal/domains/customer/model/dto"
	"hms/shared"
	"hms/shared/constant"
	gDto "hms/shared/dto"
	gModel "hms/shared/model"
	"time"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CustomerID string `json:"customer_id" validate:"required,customerid"`
	Checkin    string `json:"checkin"     validate:"required,isodate"`
	Checkout   string `json:"checkout"    validate:"required,isodate"`
	RoomNumber int    `json:"room_number" validate:"required,min=1"`
}

func (r *CreateBookingRequest) ToModel(checkin, checkout, today, now time.Time) model.Booking {
	status := model.StatusNotArrived
	if checkin.Equal(today) {
		status = model.StatusCheckedIn
	}

	return model.Booking{
		CustomerID: r.CustomerID,
		Checkin:    checkin,
		Checkout:   checkout,
		RoomNumber: r.RoomNumber,
		Status:     status,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

// BookingRequest is the walk-in form: the guest is registered (or found) and the room booked
// in one call.
type BookingRequest struct {
	customerDto.UpsertCustomerRequest
	Checkin    string `json:"checkin"     validate:"required,isodate"`
	Checkout   string `json:"checkout"    validate:"required,isodate"`
	RoomNumber int    `json:"room_number" validate:"required,min=1"`
}

func (r *BookingRequest) Customer() customerDto.UpsertCustomerRequest {
	return r.UpsertCustomerRequest
}

func (r *BookingRequest) Booking(customerID string) CreateBookingRequest {
	return CreateBookingRequest{
		CustomerID: customerID,
		Checkin:    r.Checkin,
		Checkout:   r.Checkout,
		RoomNumber: r.RoomNumber,
	}
}

// BookingResult carries the outcome of a lifecycle operation. Business conflicts are
// reported with Success false and no Booking.
type BookingResult struct {
	Success bool             `json:"success"`
	Outcome string           `json:"outcome"`
	Message string           `json:"message"`
	Booking *BookingResponse `json:"booking,omitempty"`
}

type ReservationResult struct {
	Customer customerDto.CustomerResult `json:"customer"`
	Booking  *BookingResult             `json:"booking,omitempty"`
}

// Success reports whether both the registration and the booking went through.
func (r ReservationResult) Success() bool {
	return r.Customer.Success && r.Booking != nil && r.Booking.Success
}

type BookingResponse struct {
	Serial     int64  `json:"serial"`
	CustomerID string `json:"customer_id"`
	Checkin    string `json:"checkin"`
	Checkout   string `json:"checkout"`
	RoomNumber int    `json:"room_number"`
	Status     string `json:"status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.Serial = model.Serial
	r.CustomerID = model.CustomerID
	r.Checkin = model.Checkin.Format(constant.CalendarDate)
	r.Checkout = model.Checkout.Format(constant.CalendarDate)
	r.RoomNumber = model.RoomNumber
	r.Status = model.Status.String()
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type AvailabilityRequest struct {
	Checkin  string `json:"checkin"  validate:"required,isodate"`
	Checkout string `json:"checkout" validate:"required,isodate"`
}

type AvailabilityResponse struct {
	Checkin  string `json:"checkin"`
	Checkout string `json:"checkout"`
	Rooms    []int  `json:"rooms"`
	Count    int    `json:"count"`
}

// Event types published on the booking topic.
const (
	EventBookingCreated    = "booking.created"
	EventBookingCheckedIn  = "booking.checked_in"
	EventBookingCheckedOut = "booking.checked_out"
)

type BookingEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Serial     int64     `json:"serial"`
	CustomerID string    `json:"customer_id"`
	RoomNumber int       `json:"room_number"`
	Checkin    string    `json:"checkin"`
	Checkout   string    `json:"checkout"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewBookingEvent(eventType string, booking model.Booking, at time.Time) BookingEvent {
	return BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Serial:     booking.Serial,
		CustomerID: booking.CustomerID,
		RoomNumber: booking.RoomNumber,
		Checkin:    booking.Checkin.Format(constant.CalendarDate),
		Checkout:   booking.Checkout.Format(constant.CalendarDate),
		Status:     booking.Status.String(),
		OccurredAt: at,
	}
}
