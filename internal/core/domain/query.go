package domain

import (
	"fmt"
	"strings"
)

// FilterMode selects the status restriction applied to detection and
// incident listings.
type FilterMode string

// Filter modes.
const (
	FilterDefault FilterMode = "default"
	FilterAll     FilterMode = "all"
)

// DefaultStatuses are the lifecycle states kept by FilterDefault.
var DefaultStatuses = []string{"new", "in_progress", "true_positive"}

// ParseFilterMode parses a mode name. An empty string selects FilterDefault.
func ParseFilterMode(s string) (FilterMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FilterDefault):
		return FilterDefault, nil
	case string(FilterAll):
		return FilterAll, nil
	}
	return "", ErrInvalidFilterMode.WithDetails(fmt.Sprintf("%q (want default or all)", s))
}

// StatusFilter returns the FQL filter for the mode.
//
//	default -> status:'new',status:'in_progress',status:'true_positive'
//	all     -> ""
func StatusFilter(mode FilterMode) (string, error) {
	switch mode {
	case FilterAll:
		return "", nil
	case FilterDefault:
		clauses := make([]string, 0, len(DefaultStatuses))
		for _, s := range DefaultStatuses {
			clauses = append(clauses, fqlClause("status", s))
		}
		return strings.Join(clauses, ","), nil
	}
	return "", ErrInvalidFilterMode.WithDetails(string(mode))
}

// HostnameFilter returns the FQL filter matching a device hostname.
// FQL wildcards (*) in the hostname are passed through unchanged.
func HostnameFilter(hostname string) (string, error) {
	hostname = strings.TrimSpace(hostname)
	if hostname == "" {
		return "", ErrInvalidArgument.WithDetails("hostname must not be empty")
	}
	return fqlClause("hostname", hostname), nil
}

func fqlClause(field, value string) string {
	return field + ":'" + strings.ReplaceAll(value, "'", `\'`) + "'"
}

// Page is the offset/limit window of a list request.
type Page struct {
	Offset int
	Limit  int
}

// Default page window.
const (
	DefaultOffset = 0
	DefaultLimit  = 10
	MaxLimit      = 5000
)

// DefaultPage returns the page used when none is configured.
func DefaultPage() Page {
	return Page{Offset: DefaultOffset, Limit: DefaultLimit}
}

// Validate checks the page bounds.
func (p Page) Validate() error {
	if p.Offset < 0 {
		return ErrInvalidArgument.WithDetails(fmt.Sprintf("offset must be >= 0, got %d", p.Offset))
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return ErrInvalidArgument.WithDetails(fmt.Sprintf("limit must be between 1 and %d, got %d", MaxLimit, p.Limit))
	}
	return nil
}

// SortLastBehaviorDesc orders detections and incidents most recently active first.
const SortLastBehaviorDesc = "last_behavior|desc"

// IDList is an ordered page of opaque identifiers returned by a list call.
// An empty IDList is the terminal "no data" state.
type IDList []string

// ResourceQuery describes the list phase of a list-then-hydrate query.
type ResourceQuery struct {
	Family Family
	Page   Page
	Sort   string
	Filter string
}

// Validate checks that the query targets a known family and has a sane page.
func (q ResourceQuery) Validate() error {
	if !q.Family.IsValid() {
		return ErrUnknownFamily.WithDetails(string(q.Family))
	}
	return q.Page.Validate()
}
