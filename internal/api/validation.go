package api

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"partner-catalog-service/internal/domain"
)

// newValidator returns a validator that reports fields by their JSON name
// and knows the http_url and pdf_file tags.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("http_url", validateHTTPURL)
	_ = v.RegisterValidation("pdf_file", validatePDFFile)
	return v
}

// validateHTTPURL accepts absolute http:// and https:// URLs with a host.
// The scheme prefix is matched case-sensitively, like the column CHECK.
func validateHTTPURL(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

// validatePDFFile accepts file names ending in .pdf, in any case.
func validatePDFFile(fl validator.FieldLevel) bool {
	return strings.HasSuffix(strings.ToLower(fl.Field().String()), ".pdf")
}

// validateStruct runs the validator and converts its errors into a domain ValidationError.
func (h *HTTPHandler) validateStruct(s any) error {
	err := h.validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError("non_field_errors", err.Error())
	}
	verr := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fieldName(fe), fieldMessage(fe))
	}
	return verr
}

// fieldName strips the element index from dive errors: familles_ids[2] -> familles_ids.
func fieldName(fe validator.FieldError) string {
	name, _, _ := strings.Cut(fe.Field(), "[")
	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return "This list may not be empty."
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return "Invalid pk - must be a positive integer."
	case "http_url":
		return "Enter a valid URL starting with http:// or https://."
	case "pdf_file":
		return "Only PDF files (.pdf) are accepted."
	default:
		return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
	}
}
