package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// errorFields is the failure body shared by envelope and direct responses.
type errorFields struct {
	Error string `json:"error"`
	Hint  string `json:"hint"`
}

// Unwrap normalizes a backend response into its success payload.
//
// An object with a "statusCode" field is an envelope whose "body" holds the
// JSON-encoded payload; status 200 is success. Anything else is the payload
// itself, successful when transportOK is set. Failures become a *RemoteError
// carrying the body's "error" field, or fallback when it has none. Undecodable
// JSON at either level is a *ParseError.
func Unwrap(raw []byte, transportOK bool, fallback string) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if !json.Valid(raw) {
		return nil, &ParseError{Err: errors.New("response is not valid JSON")}
	}

	var env struct {
		StatusCode *json.Number    `json:"statusCode"`
		Body       json.RawMessage `json:"body"`
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, &ParseError{Err: err}
		}
	}

	if env.StatusCode == nil {
		if transportOK {
			return json.RawMessage(raw), nil
		}
		return nil, remoteError(raw, 0, fallback)
	}

	status, err := env.StatusCode.Int64()
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("statusCode: %w", err)}
	}

	inner, err := envelopeBody(env.Body)
	if err != nil {
		return nil, err
	}

	if status == 200 {
		return inner, nil
	}
	return nil, remoteError(inner, int(status), fallback)
}

// envelopeBody decodes the JSON document held in an envelope's body string.
// A body that is already an object is accepted as is.
func envelopeBody(body json.RawMessage) (json.RawMessage, error) {
	if len(body) == 0 || string(body) == "null" {
		return nil, &ParseError{Err: errors.New("envelope has no body")}
	}
	if body[0] != '"' {
		return body, nil
	}

	var s string
	if err := json.Unmarshal(body, &s); err != nil {
		return nil, &ParseError{Err: err}
	}
	inner := bytes.TrimSpace([]byte(s))
	if !json.Valid(inner) {
		return nil, &ParseError{Err: errors.New("envelope body is not valid JSON")}
	}
	return json.RawMessage(inner), nil
}

func remoteError(body []byte, status int, fallback string) error {
	var fields errorFields
	// Non-object bodies carry no error field; the fallback applies.
	_ = json.Unmarshal(body, &fields)

	msg := fields.Error
	if msg == "" {
		msg = fallback
	}
	return &RemoteError{StatusCode: status, Message: msg, Hint: fields.Hint}
}

// Decode unwraps raw and decodes the payload into T.
func Decode[T any](raw []byte, transportOK bool, fallback string) (T, error) {
	var out T

	payload, err := Unwrap(raw, transportOK, fallback)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, &ParseError{Err: err}
	}
	return out, nil
}
