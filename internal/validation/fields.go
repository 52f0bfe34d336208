// Package validation converts untrusted request payloads into typed values.
// Every helper either returns a typed value or fails with an
// *errors.ErrorWithStatusCode carrying a 400 status; values reaching the
// storage layer are already well-formed.
package validation

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	apperrors "github.com/startdash-dev/startdash/internal/errors"
)

const maxOrderItems = 1000

var hexColorRe = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

// textPolicy strips any markup from free-text fields before storage.
var textPolicy = bluemonday.StrictPolicy()

// DecodeObject reads a JSON object from r. Numbers are kept as json.Number
// so integer fields can be told apart from floats downstream.
func DecodeObject(r io.Reader, message string) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, apperrors.Validation(message)
	}
	return data, nil
}

// RequiredString trims and bounds-checks a mandatory string field.
func RequiredString(data map[string]any, key string, maxLen int) (string, error) {
	raw, ok := data[key].(string)
	if !ok {
		return "", apperrors.Validation(fmt.Sprintf("'%s' must be a string", key))
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", apperrors.Validation(fmt.Sprintf("'%s' is required", key))
	}
	if len(value) > maxLen {
		return "", apperrors.Validation(fmt.Sprintf("'%s' exceeds max length %d", key, maxLen))
	}
	return value, nil
}

// OptionalString returns nil when the key is absent or null.
func OptionalString(data map[string]any, key string, maxLen int) (*string, error) {
	raw, present := data[key]
	if !present || raw == nil {
		return nil, nil
	}
	value, ok := raw.(string)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a string", key))
	}
	if len(value) > maxLen {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' exceeds max length %d", key, maxLen))
	}
	return &value, nil
}

func asInt(raw any) (int64, bool) {
	num, ok := raw.(json.Number)
	if !ok {
		return 0, false
	}
	value, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return value, true
}

// RequiredInt bounds-checks a mandatory integer field (inclusive).
func RequiredInt(data map[string]any, key string, min, max int64) (int64, error) {
	value, ok := asInt(data[key])
	if !ok {
		return 0, apperrors.Validation(fmt.Sprintf("'%s' must be an integer", key))
	}
	if value < min {
		return 0, apperrors.Validation(fmt.Sprintf("'%s' must be >= %d", key, min))
	}
	if value > max {
		return 0, apperrors.Validation(fmt.Sprintf("'%s' must be <= %d", key, max))
	}
	return value, nil
}

// OptionalInt returns nil when the key is absent.
func OptionalInt(data map[string]any, key string, min, max int64) (*int64, error) {
	if _, present := data[key]; !present {
		return nil, nil
	}
	value, err := RequiredInt(data, key, min, max)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// OptionalFloat returns nil when the key is absent; bounds are inclusive.
func OptionalFloat(data map[string]any, key string, min, max float64) (*float64, error) {
	raw, present := data[key]
	if !present {
		return nil, nil
	}
	num, ok := raw.(json.Number)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a number", key))
	}
	value, err := num.Float64()
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a number", key))
	}
	if value < min {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be >= %g", key, min))
	}
	if value > max {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be <= %g", key, max))
	}
	return &value, nil
}

// OptionalURL accepts an absent key, an empty string, or a well-formed
// http/https URL with a non-empty host.
func OptionalURL(data map[string]any, key string, maxLen int) (*string, error) {
	value, err := OptionalString(data, key, maxLen)
	if err != nil || value == nil || *value == "" {
		return value, err
	}
	parsed, err := url.Parse(*value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be an http/https URL", key))
	}
	if parsed.Host == "" {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a valid URL", key))
	}
	return value, nil
}

// OptionalHexColor accepts 6 hex digits with an optional leading '#' and
// normalizes to lowercase '#rrggbb'.
func OptionalHexColor(data map[string]any, key string) (*string, error) {
	raw, present := data[key]
	if !present {
		return nil, nil
	}
	value, ok := raw.(string)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a string", key))
	}
	if !hexColorRe.MatchString(value) {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a hex color like #ffffff", key))
	}
	normalized := strings.ToLower(strings.TrimPrefix(value, "#"))
	normalized = "#" + normalized
	return &normalized, nil
}

// IDList parses a bounded list of integer ids.
func IDList(data map[string]any, key string) ([]int64, error) {
	raw, ok := data[key].([]any)
	if !ok {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' must be a list", key))
	}
	if len(raw) > maxOrderItems {
		return nil, apperrors.Validation(fmt.Sprintf("'%s' exceeds max size %d", key, maxOrderItems))
	}
	ids := make([]int64, 0, len(raw))
	for _, item := range raw {
		id, ok := asInt(item)
		if !ok {
			return nil, apperrors.Validation(fmt.Sprintf("'%s' contains non-integer value", key))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PlainText strips any HTML from free-text input so stored values can never
// carry markup into the dashboard page.
func PlainText(value string) string {
	return textPolicy.Sanitize(value)
}
