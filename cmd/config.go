package cmd

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// intFlagOrViper returns the flag's value, replaced by a positive viper key
// when the user left the flag at its default.
func intFlagOrViper(flags *pflag.FlagSet, name, viperKey string) int {
	value, _ := flags.GetInt(name)
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return value
	}
	if v := viper.GetInt(viperKey); v > 0 {
		return v
	}
	return value
}

// stringFlagOrViper returns the flag's value, falling back to the viper key
// when the flag is empty.
func stringFlagOrViper(flags *pflag.FlagSet, name, viperKey string) string {
	value, _ := flags.GetString(name)
	if value != "" {
		return value
	}
	return viper.GetString(viperKey)
}
