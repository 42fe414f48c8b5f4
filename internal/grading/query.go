package grading

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// QueryMode selects how ParseQuery locates the name and score parameters.
type QueryMode string

const (
	// QueryModeKey looks parameters up by key, in any order.
	QueryModeKey QueryMode = "key"
	// QueryModePositional reads name from the first parameter and score
	// from the second, ignoring their keys.
	QueryModePositional QueryMode = "positional"
)

const (
	paramName  = "name"
	paramScore = "score"
)

// ParseQuery builds a ScoreRequest from a raw (still encoded) query string.
//
// An empty query yields ErrMissingParameters. Structural problems yield
// ErrMalformedQuery and a score that is not a 32-bit integer yields
// ErrInvalidScore. Returned errors wrap a *QueryError.
func ParseQuery(rawQuery string, mode QueryMode) (ScoreRequest, error) {
	if rawQuery == "" {
		return ScoreRequest{}, errors.WithStack(&QueryError{Kind: ErrMissingParameters})
	}

	if mode == QueryModePositional {
		return parsePositional(rawQuery)
	}
	return parseByKey(rawQuery)
}

func parseByKey(rawQuery string) (ScoreRequest, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ScoreRequest{}, queryError(ErrMalformedQuery, "%v", err)
	}

	if !values.Has(paramName) {
		return ScoreRequest{}, queryError(ErrMalformedQuery, "missing %q parameter", paramName)
	}
	if !values.Has(paramScore) {
		return ScoreRequest{}, queryError(ErrMalformedQuery, "missing %q parameter", paramScore)
	}

	score, err := parseScore(values.Get(paramScore))
	if err != nil {
		return ScoreRequest{}, err
	}

	return ScoreRequest{Name: values.Get(paramName), Score: score}, nil
}

func parsePositional(rawQuery string) (ScoreRequest, error) {
	tokens := strings.Split(rawQuery, "&")
	if len(tokens) < 2 {
		return ScoreRequest{}, queryError(ErrMalformedQuery, "expected %s and %s parameters", paramName, paramScore)
	}

	name, err := tokenValue(tokens, 0)
	if err != nil {
		return ScoreRequest{}, err
	}

	rawScore, err := tokenValue(tokens, 1)
	if err != nil {
		return ScoreRequest{}, err
	}

	score, err := parseScore(rawScore)
	if err != nil {
		return ScoreRequest{}, err
	}

	return ScoreRequest{Name: name, Score: score}, nil
}

// tokenValue returns the decoded text between the first and second '=' of
// tokens[i]. Trailing empty segments are dropped before the lookup, so
// "name=" and "name==" count as parameters without a value.
func tokenValue(tokens []string, i int) (string, error) {
	parts := strings.Split(tokens[i], "=")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) < 2 {
		return "", queryError(ErrMalformedQuery, "parameter %d has no value", i+1)
	}

	value, err := url.QueryUnescape(parts[1])
	if err != nil {
		return "", queryError(ErrMalformedQuery, "parameter %d: %v", i+1, err)
	}

	return value, nil
}

func parseScore(raw string) (int, error) {
	score, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, queryError(ErrInvalidScore, "%q is not an integer", raw)
	}
	return int(score), nil
}
