package enums

import (
	"fmt"
	"strings"
)

// VisibilityFilter narrows the admin catalog by the product visible flag.
type VisibilityFilter string

const (
	VisibilityAll     VisibilityFilter = "all"
	VisibilityVisible VisibilityFilter = "visible"
	VisibilityHidden  VisibilityFilter = "hidden"
)

var validVisibilityFilters = []VisibilityFilter{
	VisibilityAll,
	VisibilityVisible,
	VisibilityHidden,
}

func (v VisibilityFilter) String() string {
	return string(v)
}

func (v VisibilityFilter) IsValid() bool {
	for _, candidate := range validVisibilityFilters {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseVisibilityFilter converts raw input; empty input means all.
func ParseVisibilityFilter(value string) (VisibilityFilter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return VisibilityAll, nil
	}
	for _, candidate := range validVisibilityFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid visibility filter %q", value)
}
