package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/matzehuels/platemap/pkg/errors"
)

// errorBody is the shape of every failed response.
type errorBody struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto its status code and error body. Internal errors
// hide their cause from the client.
func writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	body := errorBody{Error: errors.UserMessage(err), Code: string(errors.GetCode(err))}
	if status == http.StatusInternalServerError {
		body = errorBody{Error: "Internal server error", Code: string(errors.ErrCodeInternal)}
	}

	var rl *errors.RateLimitedError
	if stderrors.As(err, &rl) && rl.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter))
	}
	writeJSON(w, status, body)
}

// invalidPayload is the 400 response for a body that fails validation.
func invalidPayload(w http.ResponseWriter, v *validation) {
	writeJSON(w, http.StatusBadRequest, errorBody{
		Error:   "Invalid payload",
		Code:    string(errors.ErrCodeInvalidInput),
		Details: v,
	})
}

// decodeJSON reads one JSON value from the request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Error: "Request body too large",
				Code:  string(errors.ErrCodeInvalidInput),
			})
			return false
		}
		v := &validation{}
		v.form("malformed JSON body")
		invalidPayload(w, v)
		return false
	}
	return true
}

// validation collects payload problems in the same shape editors already
// parse: form-level messages plus messages per field.
type validation struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

func (v *validation) form(msg string) {
	v.FormErrors = append(v.FormErrors, msg)
	if v.FieldErrors == nil {
		v.FieldErrors = map[string][]string{}
	}
}

func (v *validation) field(name, msg string) {
	if v.FieldErrors == nil {
		v.FieldErrors = map[string][]string{}
	}
	if v.FormErrors == nil {
		v.FormErrors = []string{}
	}
	v.FieldErrors[name] = append(v.FieldErrors[name], msg)
}

func (v *validation) ok() bool {
	return len(v.FormErrors) == 0 && len(v.FieldErrors) == 0
}
