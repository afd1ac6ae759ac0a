package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// knownArgs drops flags cmd does not define. pflag would otherwise take the
// token after an unknown flag as its value, so `--verbose local` would lose
// the baseline. Values of known flags are kept with their flag.
func knownArgs(cmd *cobra.Command, args []string) []string {
	cmd.InitDefaultHelpFlag()

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			out = append(out, args[i:]...)
			break
		}
		if len(a) < 2 || a[0] != '-' {
			out = append(out, a)
			continue
		}

		f := lookupFlag(cmd, a)
		if f == nil {
			continue
		}
		out = append(out, a)
		if needsValue(f, a) && i+1 < len(args) {
			i++
			out = append(out, args[i])
		}
	}
	return out
}

func lookupFlag(cmd *cobra.Command, arg string) *pflag.Flag {
	if strings.HasPrefix(arg, "--") {
		name, _, _ := strings.Cut(arg[2:], "=")
		if f := cmd.Flags().Lookup(name); f != nil {
			return f
		}
		return cmd.PersistentFlags().Lookup(name)
	}
	short := arg[1:2]
	if f := cmd.Flags().ShorthandLookup(short); f != nil {
		return f
	}
	return cmd.PersistentFlags().ShorthandLookup(short)
}

// needsValue reports whether the next token belongs to f.
func needsValue(f *pflag.Flag, arg string) bool {
	if f.NoOptDefVal != "" {
		return false
	}
	if strings.HasPrefix(arg, "--") {
		return !strings.Contains(arg, "=")
	}
	return len(arg) == 2
}
