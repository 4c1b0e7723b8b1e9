package dto

import (
	bookingModel "hms/internal/domains/booking/model"
	bookingDto "hms/internal/domains/booking/model/dto"
	customerModel "hms/internal/domains/customer/model"
	customerDto "hms/internal/domains/customer/model/dto"
	gDto "hms/shared/dto"
)

// BookingFilter narrows the bookings listing. Zero values are ignored.
type BookingFilter struct {
	Status     string `json:"status"      validate:"omitempty,oneof=not_arrived checkedin checkedout"`
	CustomerID string `json:"customer_id" validate:"omitempty,customerid"`
	RoomNumber int    `json:"room_number" validate:"omitempty,min=1"`
}

func (f BookingFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Status != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: bookingModel.FieldStatus, Value: f.Status, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName,
		})
	}

	if f.CustomerID != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: bookingModel.FieldCustomerID, Value: f.CustomerID, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName,
		})
	}

	if f.RoomNumber > 0 {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: bookingModel.FieldRoomNumber, Value: f.RoomNumber, Operator: gDto.FilterOperatorEq, Table: bookingModel.TableName,
		})
	}

	return group
}

// CustomerFilter narrows the customers listing. Name matches case-insensitively.
type CustomerFilter struct {
	Name       string `json:"name"         validate:"omitempty,max=100"`
	GovtIDType string `json:"govt_id_type" validate:"omitempty,oneof=UID DL PSP"`
}

func (f CustomerFilter) ToFilterGroup() gDto.FilterGroup {
	group := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if f.Name != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: customerModel.FieldName, Value: f.Name, Operator: gDto.FilterOperatorLike, Table: customerModel.TableName,
		})
	}

	if f.GovtIDType != "" {
		group.Filters = append(group.Filters, gDto.Filter{
			Field: customerModel.FieldGovtIDType, Value: f.GovtIDType, Operator: gDto.FilterOperatorEq, Table: customerModel.TableName,
		})
	}

	return group
}

type OccupancyResponse struct {
	Booked         []int `json:"booked"`
	Available      []int `json:"available"`
	BookedCount    int   `json:"booked_count"`
	AvailableCount int   `json:"available_count"`
}

type ArrivalsResponse struct {
	Customers []customerDto.CustomerResponse `json:"customers"`
	Total     int                            `json:"total"`
}

func (r *ArrivalsResponse) FromModels(models []customerModel.Customer) {
	r.Total = len(models)

	r.Customers = make([]customerDto.CustomerResponse, len(models))
	for i, mod := range models {
		r.Customers[i].FromModel(mod)
	}
}

type CustomerDetailsResponse struct {
	Customer customerDto.CustomerResponse `json:"customer"`
	Bookings []bookingDto.BookingResponse `json:"bookings"`
}

func (r *CustomerDetailsResponse) FromModels(customer customerDto.CustomerResponse, bookings []bookingModel.Booking) {
	r.Customer = customer

	r.Bookings = make([]bookingDto.BookingResponse, len(bookings))
	for i, mod := range bookings {
		r.Bookings[i].FromModel(mod)
	}
}

type ExportResponse struct {
	CustomersURL string `json:"customers_url"`
	BookingsURL  string `json:"bookings_url"`
	Customers    int    `json:"customers"`
	Bookings     int    `json:"bookings"`
}
