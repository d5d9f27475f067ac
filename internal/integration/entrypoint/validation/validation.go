// Package validation registers the request validation rules shared by the
// HTTP handlers.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PercentageTag validates a float in [0, 100].
const PercentageTag = "percentage"

var registerOnce sync.Once

// Register installs the custom rules on gin's validator. It is safe to call
// more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected validator engine")
			return
		}
		err = RegisterOn(v)
	})
	return err
}

// RegisterOn installs the custom rules on v and reports fields by their JSON
// name.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation(PercentageTag, validatePercentage)
}

func validatePercentage(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		p := fl.Field().Float()
		return p >= 0 && p <= 100
	default:
		return false
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

// Describe turns a binding error into a short, stable message listing the
// offending fields. Other errors are returned as they are.
func Describe(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	sort.Strings(fields)
	return strings.Join(fields, "; ")
}
