package dto

import (
	"hms/internal/domains/customer/model"
	"hms/shared"
	gDto "hms/shared/dto"
	"hms/shared/identity"
	gModel "hms/shared/model"
	"time"
)

type UpsertCustomerRequest struct {
	Name         string `json:"name"           validate:"required,max=100"`
	Phone        string `json:"phone"          validate:"required,phone"`
	Address      string `json:"address"        validate:"required,max=500"`
	GovtIDType   string `json:"govt_id_type"   validate:"required,oneof=UID DL PSP"`
	GovtIDNumber string `json:"govt_id_number" validate:"required,govtid=GovtIDType"`
}

// Normalize applies the canonical casing before validation and storage.
func (r *UpsertCustomerRequest) Normalize() {
	r.Name = identity.NormalizeName(r.Name)
	r.Address = identity.NormalizeAddress(r.Address)
	r.GovtIDType = identity.NormalizeGovtID(r.GovtIDType)
	r.GovtIDNumber = identity.NormalizeGovtID(r.GovtIDNumber)
}

func (r *UpsertCustomerRequest) ToModel(id string, now time.Time) model.Customer {
	return model.Customer{
		ID:           id,
		Name:         r.Name,
		Phone:        r.Phone,
		Address:      r.Address,
		GovtIDType:   r.GovtIDType,
		GovtIDNumber: r.GovtIDNumber,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
		},
	}
}

// CustomerResult is the outcome of an upsert. CONFLICT is reported with Success false.
type CustomerResult struct {
	Success    bool   `json:"success"`
	Outcome    string `json:"outcome"`
	Message    string `json:"message"`
	CustomerID string `json:"customer_id,omitempty"`
}

type CustomerResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	GovtIDType   string `json:"govt_id_type"`
	GovtIDNumber string `json:"govt_id_number"`
	gDto.Metadata
}

func (r *CustomerResponse) FromModel(model model.Customer) {
	r.ID = model.ID
	r.Name = model.Name
	r.Phone = model.Phone
	r.Address = model.Address
	r.GovtIDType = model.GovtIDType
	r.GovtIDNumber = identity.FormatGovtID(model.GovtIDType, model.GovtIDNumber)
	r.Metadata.FromModel(model.Metadata)
}

type GetCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetCustomersResponse) FromModels(models []model.Customer, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Customers = make([]CustomerResponse, len(models))
	for i, mod := range models {
		r.Customers[i].FromModel(mod)
	}
}
