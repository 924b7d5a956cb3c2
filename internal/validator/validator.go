package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	models "github.com/chrisdamba/holidaze/internal"
)

// CustomValidator checks request shape only. Business rules with a required
// evaluation order (dates, guest bounds, overlap) belong to the booking
// guard, not here.
type CustomValidator struct {
	validator *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	v := validator.New()
	v.RegisterValidation("valid_uuid", validateUUID)
	v.RegisterValidation("valid_role", validateRole)
	v.RegisterValidation("name_length", validateNameLength)

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func validateUUID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	_, err := uuid.Parse(id)
	return err == nil
}

func validateRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	supportedRoles := map[string]bool{
		string(models.RoleCustomer):     true,
		string(models.RoleVenueManager): true,
	}
	return supportedRoles[role]
}

func validateNameLength(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return len(name) > 0 && len(name) <= 50
}
