package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/Ricci-ricci/backend/apperrors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(fieldName)
	}
}

// fieldName reports json/uri/form names instead of Go field names.
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "uri", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Bind binds the JSON body into obj and renders a validation error on
// failure. It reports whether the handler may continue.
func Bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		Error(c, BindingError(err))
		return false
	}
	return true
}

// BindURI is Bind for path parameters.
func BindURI(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindUri(obj); err != nil {
		Error(c, BindingError(err))
		return false
	}
	return true
}

// BindingError converts a gin binding failure into an *apperrors.Error.
func BindingError(err error) *apperrors.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperrors.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: describe(fe)})
		}
		return apperrors.Validation(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return apperrors.Validation([]apperrors.FieldError{{
			Field:   typeErr.Field,
			Message: fmt.Sprintf("must be a %s", typeErr.Type.Kind()),
		}})
	}

	if errors.Is(err, io.EOF) {
		return apperrors.BadRequest("Request body is required")
	}
	return apperrors.Wrap(apperrors.KindBadRequest, "Invalid request body", err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email address"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
