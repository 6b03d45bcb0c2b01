package request

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/corray333/backend-labs/auditadmin/internal/service/models/audit"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

const dateLayout = "2006-01-02"

var (
	decoder  = newDecoder()
	validate = newValidator()
)

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"schema", "json"} {
			name := strings.Split(f.Tag.Get(tag), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}

		return f.Name
	})
	_ = v.RegisterValidation("audit_operation", func(fl validator.FieldLevel) bool {
		return audit.Operation(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("audit_date", func(fl validator.FieldLevel) bool {
		return IsDate(fl.Field().String())
	})

	return v
}

// IsDate reports whether s is a calendar date or an RFC 3339 timestamp.
func IsDate(s string) bool {
	if _, err := time.Parse(dateLayout, s); err == nil {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)

	return err == nil
}

// Location resolves an IANA zone name. An empty or unknown name yields UTC.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		slog.Warn("Unknown time zone, falling back to UTC", "tz", tz, "error", err)

		return time.UTC
	}

	return loc
}

// DecodeQuery fills dst from the query string and validates it.
func DecodeQuery(dst any, values url.Values) error {
	if err := decoder.Decode(dst, values); err != nil {
		return fmt.Errorf("failed to decode query: %w", err)
	}

	return Validate(dst)
}

// Validate checks v against its validate tags and names the first offending field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Errorf("%s is required", fieldPath(fe))
		}

		return fmt.Errorf("invalid value for %s: %v", fieldPath(fe), fe.Value())
	}

	return err
}

// ValidateSlice validates every element of a slice body.
func ValidateSlice[T any](items []T) error {
	for i := range items {
		if err := Validate(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	return nil
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}

	return fe.Field()
}
