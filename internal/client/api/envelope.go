package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// envelope covers both response conventions the backend uses:
//
//	{"success": true, "data": {...}, "message": "..."}
//	{"status": 200, "balance": 120.5}
type envelope struct {
	Success *bool           `json:"success"`
	Status  json.RawMessage `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// legacyOK interprets the legacy status field. ok reports whether the field
// was present at all.
func (e envelope) legacyOK() (success bool, ok bool) {
	raw := bytes.TrimSpace(e.Status)
	if len(raw) == 0 || string(raw) == "null" {
		return false, false
	}
	if n, err := strconv.Atoi(string(raw)); err == nil {
		return n == 200, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		switch strings.ToLower(s) {
		case "200", "ok", "success":
			return true, true
		}
		return false, true
	}
	return false, true
}

// decodeResponse turns an HTTP status and body into either a populated out
// or an *Error. out may be nil when the caller only needs success.
func decodeResponse(statusCode int, body []byte, out any) error {
	httpOK := statusCode >= 200 && statusCode < 300
	body = bytes.TrimSpace(body)

	var env envelope
	if len(body) == 0 || body[0] != '{' || json.Unmarshal(body, &env) != nil {
		if httpOK && (out == nil || len(body) == 0) {
			return nil
		}
		if httpOK && len(body) > 0 && body[0] == '[' {
			return json.Unmarshal(body, out)
		}
		return &Error{StatusCode: statusCode}
	}

	success := httpOK
	if env.Success != nil {
		success = httpOK && *env.Success
	} else if legacy, present := env.legacyOK(); present {
		success = httpOK && legacy
	}

	if !success {
		code := statusCode
		if httpOK {
			// a 2xx carrying success=false is a logical rejection
			code = 422
		}
		return &Error{StatusCode: code, Message: env.message()}
	}

	if out == nil {
		return nil
	}

	var payload []byte
	switch d := bytes.TrimSpace(env.Data); {
	case len(d) > 0 && string(d) != "null":
		payload = d
	case env.Success != nil:
		return nil
	default:
		// legacy responses carry their fields next to status
		payload = body
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return &Error{StatusCode: statusCode}
	}
	return nil
}
