package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/malphas-lang/bespon-go"
	"github.com/malphas-lang/bespon-go/internal/options"
)

var (
	replaceKeyPath string
	replaceValPath string
	replaceTo      string

	replaceCmd = &cobra.Command{
		Use:   "replace <file>",
		Short: "Apply one key or value replacement and print the round-tripped result",
		Long: `replace loads <file> as a round-trip document, applies a single
--key or --val edit addressed by a dotted path, and prints ast.dumps().
Only source bytes touched by the edit change; everything else is
byte-identical to the input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one file argument")
			}
			if (replaceKeyPath == "") == (replaceValPath == "") {
				return errors.New("specify exactly one of --key or --val")
			}

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			doc, err := bespon.ParseRoundTrip(string(src), func(rt *options.RoundTrip) { rt.Filename = args[0] })
			if err != nil {
				reportParseErr(args[0], string(src), err)
				return err
			}

			if replaceKeyPath != "" {
				if err := doc.ReplaceKey(parseDottedPath(replaceKeyPath), replaceTo); err != nil {
					return err
				}
			} else {
				if err := doc.ReplaceVal(parseDottedPath(replaceValPath), coerceReplacement(replaceTo)); err != nil {
					return err
				}
			}

			fmt.Print(doc.Dumps())
			return nil
		},
	}
)

// parseDottedPath splits "a.b.c" into a Path of dict-key hops. There is
// no index syntax here; replace only needs to reach dict entries.
func parseDottedPath(s string) bespon.Path {
	var p bespon.Path
	for _, seg := range strings.Split(s, ".") {
		p = append(p, bespon.K(seg))
	}
	return p
}

// coerceReplacement guesses the replacement's Go type from its literal
// form (bool, integer, float, or else a bare string), matching the kind
// of value a scripting caller would pass to ast.replace_val directly.
func coerceReplacement(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func init() {
	replaceCmd.Flags().StringVar(&replaceKeyPath, "key", "", "dotted path to the entry whose key should be renamed")
	replaceCmd.Flags().StringVar(&replaceValPath, "val", "", "dotted path to the entry whose value should be replaced")
	replaceCmd.Flags().StringVar(&replaceTo, "to", "", "the new key name or value literal")
	rootCmd.AddCommand(replaceCmd)
}
