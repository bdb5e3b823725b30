package flags

import (
	"errors"
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant   = "<"
	choicePlaceholderSuffixConstant   = ">"
	choiceSeparatorConstant           = "|"
	choiceUsageTemplateConstant       = "%s %s"
	choiceTypeNameConstant            = "choice"
	unsupportedChoiceMessageConstant  = "unsupported choice"
	unsupportedChoiceTemplateConstant = "%w %q (expected one of %s)"
)

// ErrUnsupportedChoice indicates a flag value outside the declared choices.
var ErrUnsupportedChoice = errors.New(unsupportedChoiceMessageConstant)

// ChoiceValue is a pflag.Value restricted to a fixed set of lowercase choices.
type ChoiceValue struct {
	choices  []string
	selected string
}

// NewChoiceValue constructs a ChoiceValue. Choices are trimmed, lowercased, and deduplicated.
func NewChoiceValue(defaultChoice string, choices ...string) *ChoiceValue {
	normalizedChoices := make([]string, 0, len(choices))
	seenChoices := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		normalizedChoice := normalizeChoice(choice)
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, seen := seenChoices[normalizedChoice]; seen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}
		normalizedChoices = append(normalizedChoices, normalizedChoice)
	}
	return &ChoiceValue{choices: normalizedChoices, selected: normalizeChoice(defaultChoice)}
}

// Set validates and stores the candidate choice.
func (value *ChoiceValue) Set(candidate string) error {
	normalizedCandidate := normalizeChoice(candidate)
	for _, choice := range value.choices {
		if choice == normalizedCandidate {
			value.selected = choice
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplateConstant, ErrUnsupportedChoice, candidate, strings.Join(value.choices, choiceSeparatorConstant))
}

// String returns the selected choice.
func (value *ChoiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.selected
}

// Type names the value kind shown in help output.
func (value *ChoiceValue) Type() string {
	return choiceTypeNameConstant
}

// Usage renders "<a|B|c> description" with the selected choice capitalized.
func (value *ChoiceValue) Usage(description string) string {
	displayedChoices := make([]string, 0, len(value.choices))
	for _, choice := range value.choices {
		if choice == value.selected {
			choice = strings.ToUpper(choice)
		}
		displayedChoices = append(displayedChoices, choice)
	}

	placeholder := choicePlaceholderPrefixConstant + strings.Join(displayedChoices, choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return placeholder
	}
	return fmt.Sprintf(choiceUsageTemplateConstant, placeholder, trimmedDescription)
}

func normalizeChoice(choice string) string {
	return strings.ToLower(strings.TrimSpace(choice))
}
