package models

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// fieldErrors runs struct validation and returns the failing fields keyed by
// struct field name with the failed tag as value.
func fieldErrors(v any) map[string]string {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.StructField()] = fe.Tag()
	}
	return out
}

func hasTag(errs map[string]string, tag string) bool {
	for _, t := range errs {
		if t == tag {
			return true
		}
	}
	return false
}
