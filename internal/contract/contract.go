// Package contract validates the JSON payloads coming back from the LLM and
// the search provider against their expected shapes. Pure functions only:
// same payload in, same result out, no I/O.
package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/justsurfingit/Job-Search-Agent/internal/retry"
)

// DateLayout is the wire format both providers agreed on: DD/MM/YYYY.
const DateLayout = "02/01/2006"

// FormattingResult is the structured output of one successful LLM
// formatting call. Immutable after creation; DateFrom <= DateTo holds.
type FormattingResult struct {
	QueryString string
	Locations   []string
	DateFrom    time.Time
	DateTo      time.Time
}

// SearchItem is one organic result from the search provider. Title and Link
// are required; everything else defaults to empty when absent.
type SearchItem struct {
	Position         int      `json:"position"`
	Title            string   `json:"title"`
	Link             string   `json:"link"`
	Snippet          string   `json:"snippet"`
	Source           string   `json:"source"`
	RedirectLink     string   `json:"redirect_link"`
	DisplayedLink    string   `json:"displayed_link"`
	Favicon          string   `json:"favicon"`
	HighlightedWords []string `json:"snippet_highlighted_words"`
}

// SearchResultSet holds the validated organic results of one search call.
type SearchResultSet struct {
	Items []SearchItem
}

// classifyDecodeError splits decode failures in two: payloads that are not
// JSON at all are malformed, payloads where a known field has the wrong
// type are schema violations naming that field.
func classifyDecodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return retry.Violation(typeErr.Field,
			fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	}
	return retry.Malformed("response is not valid JSON", err)
}

// formattingPayload mirrors the strict JSON shape the LLM prompt demands.
// Pointers distinguish "missing" from "zero" so we can name the field.
type formattingPayload struct {
	QueryString *string   `json:"query_string"`
	Locations   *[]string `json:"locations"`
	Duration    *struct {
		From *string `json:"from"`
		To   *string `json:"to"`
	} `json:"duration"`
}

// ValidateFormatting parses and checks an LLM formatting payload.
// Unknown fields are ignored (forward compatible); missing or invalid
// required fields fail with a schema violation naming the field.
func ValidateFormatting(raw []byte) (*FormattingResult, error) {
	var payload formattingPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, classifyDecodeError(err)
	}

	if payload.QueryString == nil {
		return nil, retry.Violation("query_string", "required field is missing")
	}
	if *payload.QueryString == "" {
		return nil, retry.Violation("query_string", "must be a non-empty string")
	}
	if payload.Locations == nil {
		return nil, retry.Violation("locations", "required field is missing")
	}
	if payload.Duration == nil {
		return nil, retry.Violation("duration", "required field is missing")
	}
	if payload.Duration.From == nil {
		return nil, retry.Violation("duration.from", "required field is missing")
	}
	if payload.Duration.To == nil {
		return nil, retry.Violation("duration.to", "required field is missing")
	}

	from, err := time.Parse(DateLayout, *payload.Duration.From)
	if err != nil {
		return nil, retry.Violation("duration.from",
			fmt.Sprintf("%q is not a DD/MM/YYYY date", *payload.Duration.From))
	}
	to, err := time.Parse(DateLayout, *payload.Duration.To)
	if err != nil {
		return nil, retry.Violation("duration.to",
			fmt.Sprintf("%q is not a DD/MM/YYYY date", *payload.Duration.To))
	}
	if from.After(to) {
		return nil, retry.Violation("duration", "'from' date is after 'to' date")
	}

	return &FormattingResult{
		QueryString: *payload.QueryString,
		Locations:   *payload.Locations,
		DateFrom:    from,
		DateTo:      to,
	}, nil
}

// ValidateSearchResults parses and checks a search provider payload. Each
// item needs a non-empty title and link; optional fields pass through as-is.
func ValidateSearchResults(raw []byte) (*SearchResultSet, error) {
	var payload struct {
		Organic []SearchItem `json:"organic"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, classifyDecodeError(err)
	}

	for i, item := range payload.Organic {
		if item.Title == "" {
			return nil, retry.Violation(
				fmt.Sprintf("organic[%d].title", i), "must be a non-empty string")
		}
		if item.Link == "" {
			return nil, retry.Violation(
				fmt.Sprintf("organic[%d].link", i), "must be a non-empty string")
		}
	}

	return &SearchResultSet{Items: payload.Organic}, nil
}
