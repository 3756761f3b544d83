package validators

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	pkgerrors "github.com/angelmondragon/prosemirror-api/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const formContentType = "application/x-www-form-urlencoded"

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
	return v
}

// DecodeBody reads a JSON or URL-encoded form body into dest and validates it.
// Form values arrive as JSON strings. An empty body decodes as an empty object.
func DecodeBody(r *http.Request, dest any) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "")
	}

	if isForm(r.Header.Get("Content-Type")) {
		if raw, err = formToJSON(raw); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "")
		}
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, dest); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "")
		}
	}
	if err := validate.Struct(dest); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

func isForm(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == formContentType
}

// formToJSON keeps the first value of each field.
func formToJSON(raw []byte) ([]byte, error) {
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid form body: %w", err)
	}
	fields := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			fields[key] = vals[0]
		}
	}
	return json.Marshal(fields)
}

// formatValidationErrors reports the first failing field.
func formatValidationErrors(err error) *pkgerrors.Error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, validationMessage(errs[0]))
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "validation failed")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing required field: %s", fe.Field())
	case "max":
		return fmt.Sprintf("Field %s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Invalid field: %s", fe.Field())
}
