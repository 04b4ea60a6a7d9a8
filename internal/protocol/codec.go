package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrEmptyFrame = errors.New("empty frame")

func Encode(event string, payload any) ([]byte, error) {
	if event == "" {
		return nil, fmt.Errorf("encoding envelope: empty event name")
	}
	env := Envelope{Event: event}
	if payload != nil {
		pb, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", event, err)
		}
		env.Data = pb
	}
	return json.Marshal(env)
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, ErrEmptyFrame
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if e.Event == "" {
		return Envelope{}, fmt.Errorf("decoding envelope: missing event name")
	}
	return e, nil
}

// DecodePayload unmarshals the envelope data into T. Missing or null data
// yields the zero value, since several commands carry no payload.
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, fmt.Errorf("decoding %s payload: %w", env.Event, err)
	}
	return out, nil
}

// IDKey turns a raw JSON id (string or number) into a map key. Anything
// else yields "".
func IDKey(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return s
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return string(raw)
	}
	return ""
}
