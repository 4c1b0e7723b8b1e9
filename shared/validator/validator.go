package validator

import (
	"encoding/json"
	"fmt"
	"hms/shared/failure"
	"hms/shared/identity"
	"hms/shared/timezone"
	"io"
	"reflect"

	val "github.com/go-playground/validator/v10"
)

var validate *val.Validate

func registerPhoneValidation(field val.FieldLevel) bool {
	phone, ok := field.Field().Interface().(string)

	return ok && identity.ValidatePhone(phone)
}

// registerGovtIDValidation validates the tagged number against the id type held in the
// sibling field named by the tag parameter, e.g. `validate:"govtid=GovtIDType"`.
func registerGovtIDValidation(field val.FieldLevel) bool {
	number, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	parent := field.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}

	typeField := parent.FieldByName(field.Param())
	if !typeField.IsValid() || typeField.Kind() != reflect.String {
		return false
	}

	return identity.ValidateGovtID(typeField.String(), number)
}

func registerCustomerIDValidation(field val.FieldLevel) bool {
	id, ok := field.Field().Interface().(string)

	return ok && identity.ValidateCustomerID(id)
}

func registerISODateValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := timezone.ParseDate(value)

	return err == nil
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validations := map[string]val.Func{
		"phone":      registerPhoneValidation,
		"govtid":     registerGovtIDValidation,
		"customerid": registerCustomerIDValidation,
		"isodate":    registerISODateValidation,
	}

	for tag, fn := range validations {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
}

// Validate reads from the given io.Reader into the given struct, and then performs validation
// on the struct using the validator package. If the struct is invalid according to the
// validation rules, an error is returned. Otherwise, nil is returned.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	if err := Decode(r, data); err != nil {
		return err
	}

	return ValidateStruct(data)
}

// Decode only parses the body. Use it when the receiver normalizes before validating.
func Decode[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateStruct[T any](data *T) error {
	err := validate.Struct(data)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	err := validate.Var(field, tag)

	if err != nil {
		msg := message(err)

		return failure.BadRequestFromString(msg) //nolint:wrapcheck
	}

	return nil
}
