package util

import (
	"github.com/bwise1/love_map/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("latitude", validateLatitude)
	validate.RegisterValidation("longitude", validateLongitude)
	validate.RegisterValidation("placetype", validatePlaceType)
	validate.RegisterValidation("category", validateCategory)
}

func validateLatitude(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90 && lat <= 90
}

func validateLongitude(fl validator.FieldLevel) bool {
	lon := fl.Field().Float()
	return lon >= -180 && lon <= 180
}

func validatePlaceType(fl validator.FieldLevel) bool {
	return model.PlaceType(fl.Field().String()).Valid()
}

// empty categories are allowed and default to "other" later.
func validateCategory(fl validator.FieldLevel) bool {
	c := fl.Field().String()
	return c == "" || model.Category(c).Valid()
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}
