package model

import (
	"hms/shared/model"
)

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID           = "id"
	FieldName         = "name"
	FieldPhone        = "phone"
	FieldAddress      = "address"
	FieldGovtIDType   = "govt_id_type"
	FieldGovtIDNumber = "govt_id_number"

	ConstraintPrimaryKey = "customers_pkey"
	ConstraintGovtID     = "customers_govt_id_key"
)

// Upsert outcome codes.
const (
	OutcomeCreated       = "CREATED"
	OutcomeAlreadyExists = "ALREADY_EXISTS"
	OutcomeConflict      = "CONFLICT"
)

type Customer struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Phone        string `db:"phone"`
	Address      string `db:"address"`
	GovtIDType   string `db:"govt_id_type"`
	GovtIDNumber string `db:"govt_id_number"`
	model.Metadata
}
