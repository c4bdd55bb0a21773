package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue  = "true"
	toggleFalseCanonicalValue = "false"
	toggleYesLiteral          = "yes"
	toggleNoLiteral           = "no"
	toggleOnLiteral           = "on"
	toggleOffLiteral          = "off"
	toggleOneLiteral          = "1"
	toggleZeroLiteral         = "0"
	toggleParseErrorTemplate  = "invalid toggle value %q"
	toggleBooleanTypeName     = "bool"
)

var (
	trueLiteralSet = map[string]struct{}{
		toggleTrueCanonicalValue: {},
		toggleYesLiteral:         {},
		toggleOnLiteral:          {},
		toggleOneLiteral:         {},
	}
	falseLiteralSet = map[string]struct{}{
		toggleFalseCanonicalValue: {},
		toggleNoLiteral:           {},
		toggleOffLiteral:          {},
		toggleZeroLiteral:         {},
	}
)

type toggleFlagValue struct {
	target *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{target: target}
}

// String renders the canonical true/false value.
func (value *toggleFlagValue) String() string {
	if value.target != nil && *value.target {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

// Set parses yes/no style literals into the boolean target.
func (value *toggleFlagValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if _, isTrue := trueLiteralSet[normalizedValue]; isTrue {
		if value.target != nil {
			*value.target = true
		}
		return nil
	}
	if _, isFalse := falseLiteralSet[normalizedValue]; isFalse {
		if value.target != nil {
			*value.target = false
		}
		return nil
	}
	return fmt.Errorf(toggleParseErrorTemplate, rawValue)
}

// Type reports the flag value type for help output.
func (value *toggleFlagValue) Type() string {
	return toggleBooleanTypeName
}

// AddToggleFlag registers a boolean toggle flag that accepts yes/no style values.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil {
		return
	}
	if len(name) == 0 {
		return
	}

	toggleValue := newToggleFlagValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(toggleValue, name, shorthand, usage)
	} else {
		flagSet.Var(toggleValue, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValue
}
