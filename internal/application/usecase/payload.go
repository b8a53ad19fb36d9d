package usecase

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError is a request the caller has to fix. It maps to 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

const (
	msgInvalidPayload = "Invalid payload"
	msgInvalidID      = "Invalid id"
)

// PayloadPolicy decides what happens to malformed items inside an admin
// list payload. Lenient skips the bad items, strict rejects the request
// before anything is written.
type PayloadPolicy string

const (
	PayloadLenient PayloadPolicy = "lenient"
	PayloadStrict  PayloadPolicy = "strict"
)

func ParsePayloadPolicy(name string) (PayloadPolicy, error) {
	switch p := PayloadPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case PayloadLenient, PayloadStrict:
		return p, nil
	case "":
		return "", fmt.Errorf("payload policy is not configured (want %q or %q)", PayloadLenient, PayloadStrict)
	default:
		return "", fmt.Errorf("unknown payload policy %q", name)
	}
}

// parseCourseID accepts a JSON number or a numeric string naming a positive
// integer id.
func parseCourseID(v interface{}) (uint, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t < 1 || t != math.Trunc(t) || t > math.MaxUint32 {
			return 0, false
		}
		return uint(t), true
	case string:
		n, err := strconv.ParseUint(strings.TrimSpace(t), 10, 32)
		if err != nil || n == 0 {
			return 0, false
		}
		return uint(n), true
	}
	return 0, false
}

func parseVideoID(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t != math.Trunc(t) || t < 0 {
			return "", false
		}
		return strconv.FormatFloat(t, 'f', 0, 64), true
	}
	return "", false
}

// CourseIDs turns a decoded JSON array into course ids. Under the lenient
// policy a bad item becomes 0, so the items after it keep their position.
func (p PayloadPolicy) CourseIDs(raw interface{}) ([]uint, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, invalid(msgInvalidPayload)
	}
	ids := make([]uint, 0, len(items))
	for i, item := range items {
		id, ok := parseCourseID(item)
		if !ok {
			if p == PayloadStrict {
				return nil, invalid(fmt.Sprintf("%s: item %d is not a course id", msgInvalidPayload, i))
			}
			ids = append(ids, 0)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// VideoIDs turns a decoded JSON array into video ids.
func (p PayloadPolicy) VideoIDs(raw interface{}) ([]string, error) {
	items, ok := raw.([]interface{})
	if !ok {
		return nil, invalid(msgInvalidPayload)
	}
	ids := make([]string, 0, len(items))
	for i, item := range items {
		id, ok := parseVideoID(item)
		if !ok {
			if p == PayloadStrict {
				return nil, invalid(fmt.Sprintf("%s: item %d is not a video id", msgInvalidPayload, i))
			}
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
