// Command bespon is a thin demonstration CLI over the BespON library's
// Parse/ParseRoundTrip/Serialize entry points. It carries none of the
// loader's own logic (spec.md §1 keeps "the thin public load/loads/
// dump/dumps entry functions" and CLI wiring explicitly out of the
// core's scope).
package main

import (
	"fmt"
	"os"

	"github.com/malphas-lang/bespon-go/cmd/bespon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
