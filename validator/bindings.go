package validator

import (
	"reflect"
	"strings"

	"campusnest/constants"

	"github.com/gin-gonic/gin/binding"
	playground "github.com/go-playground/validator/v10"
)

// RegisterBindings adds the domain enums to gin's request validator so DTOs
// can use `binding:"housingtag"` and friends.
func RegisterBindings() error {
	v, ok := binding.Validator.Engine().(*playground.Validate)
	if !ok {
		return nil
	}
	rules := map[string]playground.Func{
		"housingtag": func(fl playground.FieldLevel) bool {
			return constants.Tag(fl.Field().String()).IsValid()
		},
		"usstate": func(fl playground.FieldLevel) bool {
			return constants.USState(fl.Field().String()).IsValid()
		},
		"housingtype": func(fl playground.FieldLevel) bool {
			return constants.HousingType(fl.Field().String()).IsValid()
		},
		"reportstatus": func(fl playground.FieldLevel) bool {
			return constants.ReportStatus(fl.Field().String()).IsValid()
		},
		"edu": func(fl playground.FieldLevel) bool {
			return IsEduEmail(fl.Field().String())
		},
	}
	// report json/form names so field errors match the payload keys
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
