package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleFlagTrueLiteral    = "true"
	toggleFlagAcceptedValues = "true, false, yes, no, on, off, 1, 0"
	errorToggleValueFormat   = "invalid boolean value %q for --%s; accepted values: %s"
	argumentTerminator       = "--"
	longFlagPrefix           = "--"
)

var toggleFlagLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// toggleFlagValue is a boolean flag accepting yes/no style literals, so a
// configuration default can be switched off from the command line.
type toggleFlagValue struct {
	target   *bool
	flagName string
}

func (value *toggleFlagValue) Set(input string) error {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleFlagTrueLiteral
	}
	parsed, known := toggleFlagLiterals[normalized]
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, value.flagName, toggleFlagAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

// registerToggleFlag adds a toggle flag that defaults to false and is set to
// true when given without a value.
func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, usage string) {
	*target = false
	flagSet.Var(&toggleFlagValue{target: target, flagName: name}, name, usage)
	registeredFlag := flagSet.Lookup(name)
	registeredFlag.DefValue = strconv.FormatBool(false)
	registeredFlag.NoOptDefVal = toggleFlagTrueLiteral
}

// normalizeToggleArguments joins "--flag value" into "--flag=value" for toggle
// flags followed by a boolean literal; pflag would otherwise treat the literal
// as a positional argument.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	toggleFlagNames := map[string]struct{}{}
	collectToggleFlagNames(command, toggleFlagNames)
	if len(toggleFlagNames) == 0 {
		return arguments
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == argumentTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, longFlagPrefix) && !strings.Contains(currentArgument, "=") && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(currentArgument, longFlagPrefix)
			_, isToggle := toggleFlagNames[flagName]
			literal := strings.ToLower(strings.TrimSpace(arguments[index+1]))
			if _, isLiteral := toggleFlagLiterals[literal]; isToggle && isLiteral {
				normalized = append(normalized, currentArgument+"="+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	visit := func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlagValue); isToggle {
			target[flag.Name] = struct{}{}
		}
	}
	command.PersistentFlags().VisitAll(visit)
	command.Flags().VisitAll(visit)
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
