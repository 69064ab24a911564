package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/uniforms-backend/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("transfer_type", func(fl validator.FieldLevel) bool {
		return enums.TransferType(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("uniform_condition", func(fl validator.FieldLevel) bool {
		return enums.UniformCondition(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("line_action", func(fl validator.FieldLevel) bool {
		return enums.LineAction(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("nonnegative", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && !d.IsNegative()
	})
	return v
}

func DecodeJSONBody(r *http.Request, dest any) error {
	defer func() {
		io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed").WithDetails(map[string]string{"body": bodyMessage(err)})
	}
	return ValidateStruct(dest)
}

// ValidateStruct runs the tag validators on an already populated payload.
func ValidateStruct(dest any) error {
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// Failed builds the validation error for checks that cannot be expressed as tags.
func Failed(details map[string]string) error {
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
}

// Merge folds extra field messages into an existing validation error, keeping
// the first message recorded for a field.
func Merge(err error, extra map[string]string) error {
	if len(extra) == 0 {
		return err
	}
	details := map[string]string{}
	if typed := pkgerrors.As(err); typed != nil {
		if existing, ok := typed.Details().(map[string]string); ok {
			for k, v := range existing {
				details[k] = v
			}
		}
	} else if err != nil {
		return err
	}
	for k, v := range extra {
		if _, ok := details[k]; !ok {
			details[k] = v
		}
	}
	return Failed(details)
}

func bodyMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return fmt.Sprintf("%s has an invalid type", typeErr.Field)
	}
	if errors.Is(err, io.EOF) {
		return "is required"
	}
	return err.Error()
}

func formatValidationErrors(err error) *pkgerrors.Error {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := map[string]string{}
		for _, fieldErr := range errs {
			details[fieldName(fieldErr)] = validationMessage(fieldErr)
		}
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

// fieldName drops the root struct name so nested fields read lines[0].quantity.
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	case "numeric":
		return "must be numeric"
	case "transfer_type":
		return "must be one of None, Issuance, Return, WriteOff"
	case "uniform_condition":
		return "must be one of Used, New"
	case "line_action":
		return "must be one of Add, Update, Delete"
	case "nonnegative":
		return "must be a number greater than or equal to 0"
	}
	return "is invalid"
}
