package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rentfleet/apiserver/internal/errs"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

const internalErrorMessage = "Internal Server Error"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so field lists match the request body.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ErrorResponse is the error envelope shared by every endpoint.
type ErrorResponse struct {
	Kind       errs.Kind `json:"kind"`
	Error      string    `json:"error,omitempty"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Fields     []string  `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// writeError translates err into the error envelope. Causes of database and
// internal failures are logged and never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, summary string, err error) {
	kind := errs.KindOf(err)
	status := errs.HTTPStatus(kind)
	log := zerolog.Ctx(r.Context())

	resp := ErrorResponse{
		Kind:       kind,
		Error:      summary,
		Message:    internalErrorMessage,
		StatusCode: status,
	}

	switch kind {
	case errs.KindValidation, errs.KindAuth:
		e := errs.As(err)
		resp.Message = e.Message
		resp.Fields = e.Fields
		log.Info().Str("kind", string(kind)).Strs("fields", e.Fields).Msg(summary + ": " + e.Message)
	default:
		log.Error().Err(err).Str("kind", string(kind)).Msg(summary)
	}

	writeJSON(w, status, resp)
}

// decodeJSON reads a single JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errs.Validation("invalid request body")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errs.Validation("invalid request body")
	}
	return nil
}

// fieldErrors splits validator failures into missing fields and fields that
// failed any other rule.
func fieldErrors(err error) (missing, invalid []string) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, nil
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
			continue
		}
		invalid = append(invalid, fe.Field())
	}
	return missing, invalid
}
