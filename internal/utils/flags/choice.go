// Package flags provides pflag values shared by the chores commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderTemplate     = "<%s>"
	choiceSeparatorLiteral        = "|"
	choiceUsageEmptyTemplate      = "`%s`"
	choiceUsageFullTemplate       = "`%s` %s"
	choiceInvalidValueTemplate    = "invalid value %q (expected one of %s)"
	choiceValueTypeNameConstant   = "string"
	choiceListSeparatorConstant   = ", "
	choicePlaceholderNoneConstant = ""
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	highlightedChoices := make([]string, 0, len(choices))
	for _, choice := range normalizeChoices(choices) {
		if strings.EqualFold(choice, strings.TrimSpace(defaultChoice)) {
			choice = strings.ToUpper(choice)
		}
		highlightedChoices = append(highlightedChoices, choice)
	}

	placeholder := fmt.Sprintf(choicePlaceholderTemplate, strings.Join(highlightedChoices, choiceSeparatorLiteral))
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, trimmedDescription)
}

// ChoiceValue is a pflag.Value restricted to a fixed set of case-insensitive choices.
// Accepted values are stored in their canonical spelling.
type ChoiceValue struct {
	target  *string
	choices []string
}

var _ pflag.Value = (*ChoiceValue)(nil)

// NewChoiceValue binds target to a choice flag. The target keeps its current value until Set is called.
func NewChoiceValue(target *string, choices []string) *ChoiceValue {
	if target == nil {
		target = new(string)
	}
	return &ChoiceValue{target: target, choices: normalizeChoices(choices)}
}

// Set validates and stores rawValue.
func (value *ChoiceValue) Set(rawValue string) error {
	trimmedValue := strings.TrimSpace(rawValue)
	for _, choice := range value.choices {
		if strings.EqualFold(choice, trimmedValue) {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(choiceInvalidValueTemplate, rawValue, strings.Join(value.choices, choiceListSeparatorConstant))
}

// String returns the current value.
func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return choicePlaceholderNoneConstant
	}
	return *value.target
}

// Type reports the value type shown in help output.
func (value *ChoiceValue) Type() string {
	return choiceValueTypeNameConstant
}

func normalizeChoices(choices []string) []string {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}
		lowered := strings.ToLower(trimmedChoice)
		if _, exists := seen[lowered]; exists {
			continue
		}
		seen[lowered] = struct{}{}
		normalized = append(normalized, trimmedChoice)
	}
	return normalized
}
