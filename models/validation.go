package models

import (
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	registerOnce sync.Once
	registerErr  error

	calendarDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockTimePattern    = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// RegisterValidators installs the custom rules on gin's validator and
// makes field errors report JSON names.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		for tag, fn := range map[string]validator.Func{
			"calendar_date": isCalendarDate,
			"clock_time":    isClockTime,
			"objectid":      isObjectID,
			"finite":        isFinite,
		} {
			if err := v.RegisterValidation(tag, fn); err != nil {
				registerErr = err
				return
			}
		}
	})
	return registerErr
}

// Validate runs the binding rules on a value that did not come through
// gin's request binding, such as a spreadsheet row.
func Validate(obj interface{}) error {
	if err := RegisterValidators(); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func isCalendarDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !calendarDatePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// isFinite rejects NaN and the infinities, which JSON cannot carry back out.
func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

func isClockTime(fl validator.FieldLevel) bool {
	return clockTimePattern.MatchString(fl.Field().String())
}

func isObjectID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}
