package espo

import (
	"fmt"
	"strconv"
)

// FilterType is the operator of a where condition.
type FilterType int

// Filter types understood by the EspoCRM API.
const (
	Equals FilterType = iota + 1
	NotEquals
	GreaterThan
	LessThan
	GreaterThanOrEquals
	LessThanOrEquals
	IsNull
	IsNotNull
	IsTrue
	IsFalse
	LinkedWith
	NotLinkedWith
	IsLinked
	IsNotLinked
	In
	NotIn
	Contains
	NotContains
	StartsWith
	EndsWith
	Like
	NotLike
	Or
	And
	Today
	Past
	Future
	LastSevenDays
	CurrentMonth
	LastMonth
	NextMonth
	CurrentQuarter
	LastQuarter
	CurrentYear
	LastYear
	CurrentFiscalYear
	LastFiscalYear
	CurrentFiscalQuarter
	LastFiscalQuarter
	LastXDays
	NextXDays
	OlderThanXDays
	AfterXDays
	Between
	ArrayAnyOf
	ArrayNoneOf
	ArrayAllOf
	ArrayIsEmpty
	ArrayIsNotEmpty
)

// filterTokens maps each filter type to its wire token: the Go name with the
// first letter lowercased.
var filterTokens = map[FilterType]string{
	Equals:               "equals",
	NotEquals:            "notEquals",
	GreaterThan:          "greaterThan",
	LessThan:             "lessThan",
	GreaterThanOrEquals:  "greaterThanOrEquals",
	LessThanOrEquals:     "lessThanOrEquals",
	IsNull:               "isNull",
	IsNotNull:            "isNotNull",
	IsTrue:               "isTrue",
	IsFalse:              "isFalse",
	LinkedWith:           "linkedWith",
	NotLinkedWith:        "notLinkedWith",
	IsLinked:             "isLinked",
	IsNotLinked:          "isNotLinked",
	In:                   "in",
	NotIn:                "notIn",
	Contains:             "contains",
	NotContains:          "notContains",
	StartsWith:           "startsWith",
	EndsWith:             "endsWith",
	Like:                 "like",
	NotLike:              "notLike",
	Or:                   "or",
	And:                  "and",
	Today:                "today",
	Past:                 "past",
	Future:               "future",
	LastSevenDays:        "lastSevenDays",
	CurrentMonth:         "currentMonth",
	LastMonth:            "lastMonth",
	NextMonth:            "nextMonth",
	CurrentQuarter:       "currentQuarter",
	LastQuarter:          "lastQuarter",
	CurrentYear:          "currentYear",
	LastYear:             "lastYear",
	CurrentFiscalYear:    "currentFiscalYear",
	LastFiscalYear:       "lastFiscalYear",
	CurrentFiscalQuarter: "currentFiscalQuarter",
	LastFiscalQuarter:    "lastFiscalQuarter",
	LastXDays:            "lastXDays",
	NextXDays:            "nextXDays",
	OlderThanXDays:       "olderThanXDays",
	AfterXDays:           "afterXDays",
	Between:              "between",
	ArrayAnyOf:           "arrayAnyOf",
	ArrayNoneOf:          "arrayNoneOf",
	ArrayAllOf:           "arrayAllOf",
	ArrayIsEmpty:         "arrayIsEmpty",
	ArrayIsNotEmpty:      "arrayIsNotEmpty",
}

var filterTypesByToken = func() map[string]FilterType {
	index := make(map[string]FilterType, len(filterTokens))
	for filterType, token := range filterTokens {
		index[token] = filterType
	}

	return index
}()

// AllFilterTypes returns every declared filter type in declaration order.
func AllFilterTypes() []FilterType {
	types := make([]FilterType, 0, len(filterTokens))
	for filterType := Equals; filterType <= ArrayIsNotEmpty; filterType++ {
		types = append(types, filterType)
	}

	return types
}

// Token returns the wire name of the filter type, or "" for an undeclared value.
func (f FilterType) Token() string {
	return filterTokens[f]
}

// Valid reports whether f is a declared filter type.
func (f FilterType) Valid() bool {
	_, ok := filterTokens[f]

	return ok
}

// IsGroup reports whether the filter combines nested conditions.
func (f FilterType) IsGroup() bool {
	return f == Or || f == And
}

// String implements fmt.Stringer.
func (f FilterType) String() string {
	if token, ok := filterTokens[f]; ok {
		return token
	}

	return "FilterType(" + strconv.Itoa(int(f)) + ")"
}

// MarshalText encodes the filter type as its token.
func (f FilterType) MarshalText() ([]byte, error) {
	token, ok := filterTokens[f]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFilterType, int(f))
	}

	return []byte(token), nil
}

// UnmarshalText decodes a filter token.
func (f *FilterType) UnmarshalText(text []byte) error {
	parsed, err := ParseFilterType(string(text))
	if err != nil {
		return err
	}

	*f = parsed

	return nil
}

// ParseFilterType returns the filter type for a wire token such as "isNotNull".
func ParseFilterType(token string) (FilterType, error) {
	if filterType, ok := filterTypesByToken[token]; ok {
		return filterType, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFilterType, token)
}
