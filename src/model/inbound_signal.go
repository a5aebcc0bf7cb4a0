package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

const (
	FieldPassphrase = "passphrase"
	FieldTicker     = "ticker"
	FieldAction     = "action"
)

// RequiredSignalFields must all be present and truthy on an inbound alert.
var RequiredSignalFields = []string{FieldPassphrase, FieldTicker, FieldAction}

// InboundSignal is an alert body as submitted by TradingView (or anything that
// speaks the same format). Only the required fields are interpreted; every other
// key is kept untouched so it can be stored as received.
type InboundSignal map[string]any

// DecodeInboundSignal parses a single JSON value. Numbers are kept as json.Number
// so they are persisted with the exact text the sender used. A value that is not an
// object (array, string, number, bool) yields an empty signal, which then fails the
// required-field check; null is rejected like a syntax error.
func DecodeInboundSignal(r io.Reader) (InboundSignal, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("decode signal payload: %w", err)
	}
	if body == nil {
		return nil, errors.New("decode signal payload: body is null")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode signal payload: unexpected data after JSON value")
	}

	object, ok := body.(map[string]any)
	if !ok {
		return InboundSignal{}, nil
	}
	return InboundSignal(object), nil
}

// MissingFields lists the required fields that are absent or falsy.
func (s InboundSignal) MissingFields() []string {
	var missing []string
	for _, field := range RequiredSignalFields {
		if !truthy(s[field]) {
			missing = append(missing, field)
		}
	}
	return missing
}

// Passphrase returns the passphrase if it was sent as a string.
func (s InboundSignal) Passphrase() (string, bool) {
	p, ok := s[FieldPassphrase].(string)
	return p, ok
}

func (s InboundSignal) Ticker() string {
	return s.text(FieldTicker)
}

func (s InboundSignal) Action() string {
	return s.text(FieldAction)
}

// OrderType accepts both the camelCase and snake_case spelling.
func (s InboundSignal) OrderType() string {
	if v := s.text("orderType"); v != "" {
		return v
	}
	return s.text("order_type")
}

func (s InboundSignal) Quantity() (decimal.Decimal, bool) {
	return s.number("quantity")
}

func (s InboundSignal) Price() (decimal.Decimal, bool) {
	return s.number("price")
}

// JSON re-encodes the payload. json.Number values are written back verbatim.
func (s InboundSignal) JSON() ([]byte, error) {
	return json.Marshal(map[string]any(s))
}

// Without returns a shallow copy without the given keys.
func (s InboundSignal) Without(keys ...string) InboundSignal {
	out := make(InboundSignal, len(s))
	for k, v := range s {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

func (s InboundSignal) text(key string) string {
	switch v := s[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// number reads numeric fields, including the quoted numbers TradingView
// placeholders such as {{close}} produce.
func (s InboundSignal) number(key string) (decimal.Decimal, bool) {
	var raw string
	switch v := s[key].(type) {
	case json.Number:
		raw = v.String()
	case string:
		raw = v
	case float64:
		return decimal.NewFromFloat(v), true
	default:
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// truthy follows the alert source's notion of presence: absent, null, false,
// zero and the empty string all count as missing.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return true
		}
		return f != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
