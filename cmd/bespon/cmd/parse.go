package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/malphas-lang/bespon-go"
	"github.com/malphas-lang/bespon-go/internal/diag"
)

var (
	aliasesOn bool
	circRefs  bool

	parseCmd = &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a BespON document and print its resolved value tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("expected exactly one file argument")
			}
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			v, err := bespon.Parse(string(src),
				bespon.WithLoadFilename(args[0]),
				bespon.WithAliases(aliasesOn),
				bespon.WithCircularReferences(circRefs),
			)
			if err != nil {
				reportParseErr(args[0], string(src), err)
				return err
			}

			if useRepr {
				repr.Println(v)
				return nil
			}

			out, err := bespon.Serialize(v)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
)

// reportParseErr renders a ParseError/ResolveError through the shared
// diag.Formatter so CLI failures look like every other stage's
// diagnostics (spec.md §7's uniform Diagnostic shape).
func reportParseErr(filename, src string, err error) {
	f := newFormatter()
	f.SetSource(filename, src)

	var pe *bespon.ParseError
	var re *bespon.ResolveError
	switch {
	case errors.As(err, &pe):
		f.Format(pe.ToDiagnostic())
	case errors.As(err, &re):
		f.Format(re.ToDiagnostic())
	default:
		f.Format(diag.Diagnostic{Stage: diag.StageParser, Severity: diag.SeverityError, Message: err.Error()})
	}
}

func init() {
	parseCmd.Flags().BoolVar(&aliasesOn, "aliases", true, "enable $label alias resolution")
	parseCmd.Flags().BoolVar(&circRefs, "circular-references", false, "permit circular alias references")
	rootCmd.AddCommand(parseCmd)
}
