package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PasswordMinLen is the shortest accepted password.
const PasswordMinLen = 6

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the "pwd" alias for the password length rule.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterAlias("pwd", fmt.Sprintf("min=%d", PasswordMinLen))
	}
}

// ValidationsError is one entry of the "errors" list in a 400 response.
type ValidationsError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ToDetails converts validation/binding errors into field/message pairs.
func ToDetails(err error) []ValidationsError {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &se), errors.Is(err, io.ErrUnexpectedEOF):
		return []ValidationsError{{Field: "payload", Message: "invalid json"}}
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return []ValidationsError{{Field: field, Message: "must be a " + ute.Type.String()}}
	case errors.Is(err, io.EOF):
		return []ValidationsError{{Field: "payload", Message: "request body is empty"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]ValidationsError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, ValidationsError{Field: fe.Field(), Message: formatFieldError(fe)})
		}
		return out
	}

	return []ValidationsError{{Field: "payload", Message: "invalid payload"}}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()
	kind := fe.Kind()

	switch tag {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "pwd":
		return fmt.Sprintf("must be at least %d characters long", PasswordMinLen)
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", param)
	case "min":
		if isNumberKind(kind) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(kind) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "numeric":
		return "must be numeric"
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
