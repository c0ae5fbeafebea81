package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// FieldError locates one problem in a request, e.g. Loc ["body", "title"].
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ValidationError is answered with 422 and its Detail as the body.
type ValidationError struct {
	Detail []FieldError `json:"detail"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Detail))
	for _, d := range e.Detail {
		parts = append(parts, strings.Join(d.Loc, ".")+": "+d.Msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Detail: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		d := FieldError{Loc: []string{"body", fe.Field()}}
		if fe.Tag() == "required" {
			d.Msg, d.Type = "field required", "value_error.missing"
		} else {
			d.Msg, d.Type = fmt.Sprintf("failed on the %q rule", fe.Tag()), "value_error."+fe.Tag()
		}
		out.Detail = append(out.Detail, d)
	}
	return out
}

// bindBody decodes the request into i and validates it. Decoding failures
// are reported the same way as validation failures. A body sent without a
// Content-Type is read as JSON.
func bindBody(c echo.Context, i interface{}) error {
	req := c.Request()
	if req.Header.Get(echo.HeaderContentType) == "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if err := c.Bind(i); err != nil {
		return bindError(err)
	}
	return c.Validate(i)
}

func bindError(err error) error {
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		return err
	}
	switch he.Code {
	case http.StatusBadRequest:
	case http.StatusUnsupportedMediaType:
		return &ValidationError{Detail: []FieldError{{
			Loc:  []string{"body"},
			Msg:  "body must be JSON",
			Type: "value_error.jsondecode",
		}}}
	default:
		return err
	}
	var ute *json.UnmarshalTypeError
	if errors.As(he.Internal, &ute) {
		if ute.Field == "" {
			return &ValidationError{Detail: []FieldError{{
				Loc:  []string{"body"},
				Msg:  "value is not a valid dict",
				Type: "type_error.dict",
			}}}
		}
		return &ValidationError{Detail: []FieldError{{
			Loc:  []string{"body", ute.Field},
			Msg:  "str type expected",
			Type: "type_error.str",
		}}}
	}
	return &ValidationError{Detail: []FieldError{{
		Loc:  []string{"body"},
		Msg:  "invalid JSON body",
		Type: "value_error.jsondecode",
	}}}
}
