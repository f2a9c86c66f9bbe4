package enums

import (
	"fmt"
	"strings"
)

// Presentation is the selling format of a cart or order line.
type Presentation string

const (
	PresentationUnit Presentation = "unit"
	PresentationBulk Presentation = "bulk"
)

var validPresentations = []Presentation{
	PresentationUnit,
	PresentationBulk,
}

// String implements fmt.Stringer.
func (p Presentation) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Presentation.
func (p Presentation) IsValid() bool {
	for _, candidate := range validPresentations {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePresentation converts raw input into a Presentation. Empty input means unit.
func ParsePresentation(value string) (Presentation, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return PresentationUnit, nil
	}
	for _, candidate := range validPresentations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid presentation %q", value)
}
