package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/clipperhouse/displaywidth"
)

// Formatter formats diagnostics in a Rust-style format with source code
// snippets. Source text is registered per filename through SetSource; a
// diagnostic whose file has no registered source is printed without a
// snippet.
type Formatter struct {
	sourceCache map[string]string
	out         io.Writer
	color       bool
}

// NewFormatter creates a new diagnostic formatter writing to stderr.
func NewFormatter() *Formatter {
	return &Formatter{sourceCache: make(map[string]string), out: os.Stderr}
}

// WithWriter redirects formatter output (tests use this to capture text).
func (f *Formatter) WithWriter(w io.Writer) *Formatter {
	f.out = w
	return f
}

// WithColor toggles ANSI underline coloring (cmd/bespon enables this only
// when stderr is a terminal, via golang.org/x/term).
func (f *Formatter) WithColor(enabled bool) *Formatter {
	f.color = enabled
	return f
}

// SetSource registers source text for filename. Format never reads files
// itself (the core never touches disk per spec.md §1).
func (f *Formatter) SetSource(filename, src string) {
	f.sourceCache[filename] = src
}

// Format renders a diagnostic as Rust-style output.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	spansByFile := make(map[string][]LabeledSpan)
	for _, span := range spans {
		filename := span.Span.Filename
		if filename == "" {
			filename = "<source>"
		}
		spansByFile[filename] = append(spansByFile[filename], span)
	}

	f.printHeader(d)

	for filename, fileSpans := range spansByFile {
		src, ok := f.sourceCache[filename]
		if !ok {
			f.formatSimple(d)
			return
		}
		f.printFileSpans(filename, src, fileSpans)
	}

	f.printHelp(d)
}

func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return d.LabeledSpans
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = "error"
	}
	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
	}
}

func (f *Formatter) printFileSpans(filename, src string, spans []LabeledSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	lineNumbers := make([]int, 0, len(spansByLine))
	for line := range spansByLine {
		lineNumbers = append(lineNumbers, line)
	}
	sort.Ints(lineNumbers)
	if len(lineNumbers) == 0 {
		return
	}

	startLine, endLine := lineNumbers[0], lineNumbers[len(lineNumbers)-1]
	contextStart := max(1, startLine-2)
	contextEnd := min(maxLine, endLine+2)
	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))

	fmt.Fprintf(f.out, "  --> %s\n", filename)
	fmt.Fprintf(f.out, "   %s |\n", strings.Repeat(" ", lineNumWidth))

	hasPrimary := make(map[int]bool)
	for _, span := range spans {
		if span.Style == "primary" {
			hasPrimary[span.Span.Line] = true
		}
	}

	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		lineSpans := spansByLine[lineNum]
		lineContent := ""
		if lineNum <= len(lines) {
			lineContent = lines[lineNum-1]
		}
		lineNumStr := fmt.Sprintf("%*d", lineNumWidth, lineNum)
		fmt.Fprintf(f.out, " %s | %s\n", lineNumStr, lineContent)
		if len(lineSpans) > 0 {
			f.printUnderlines(lineNumWidth, lineContent, lineSpans)
		}
	}

	fmt.Fprintf(f.out, "   %s |\n", strings.Repeat(" ", lineNumWidth))
}

// underlineColumn converts a 0-based rune column (the lexer counts
// Span.Column in runes) into a display-cell column, accounting for wide
// runes (CJK, emoji) and combining grapheme clusters so the '^' underline
// lines up beneath the right character even when the source line is not
// ASCII.
func underlineColumn(lineContent string, runeCol int) int {
	if runeCol <= 0 {
		return 0
	}
	runes := []rune(lineContent)
	if runeCol > len(runes) {
		runeCol = len(runes)
	}
	return displaywidth.String(string(runes[:runeCol]))
}

func (f *Formatter) printUnderlines(lineNumWidth int, lineContent string, spans []LabeledSpan) {
	width := displaywidth.String(lineContent)
	if width == 0 {
		width = len(lineContent)
	}
	underline := make([]byte, width+1)
	for i := range underline {
		underline[i] = ' '
	}

	sort.Slice(spans, func(i, j int) bool {
		return spans[i].Span.Column < spans[j].Span.Column
	})

	mark := func(span LabeledSpan, ch byte, overwrite bool) {
		startCol := underlineColumn(lineContent, span.Span.Column-1)
		runLen := max(1, span.Span.End-span.Span.Start)
		end := span.Span.Column - 1 + runLen
		endCol := underlineColumn(lineContent, end)
		if endCol <= startCol {
			endCol = startCol + 1
		}
		for i := startCol; i < endCol && i < len(underline); i++ {
			if overwrite || underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}

	for _, span := range spans {
		if span.Style == "primary" {
			mark(span, '^', true)
		}
	}
	for _, span := range spans {
		if span.Style != "primary" {
			mark(span, '~', false)
		}
	}

	rightmost := -1
	for i := len(underline) - 1; i >= 0; i-- {
		if underline[i] != ' ' {
			rightmost = i
			break
		}
	}
	if rightmost == -1 {
		return
	}

	fmt.Fprintf(f.out, "   %s | %s", strings.Repeat(" ", lineNumWidth), string(underline[:rightmost+1]))

	var primaryLabel string
	var secondaryLabels []string
	for _, span := range spans {
		if span.Label == "" {
			continue
		}
		if span.Style == "primary" {
			primaryLabel = span.Label
		} else {
			secondaryLabels = append(secondaryLabels, span.Label)
		}
	}
	if primaryLabel != "" {
		fmt.Fprintf(f.out, " %s", primaryLabel)
	}
	fmt.Fprintln(f.out)

	for _, label := range secondaryLabels {
		fmt.Fprintf(f.out, "   %s | %s\n", strings.Repeat(" ", lineNumWidth), label)
	}
}

func (f *Formatter) printHelp(d Diagnostic) {
	for _, step := range d.ProofChain {
		fmt.Fprintln(f.out)
		if step.Span.IsValid() {
			fmt.Fprintf(f.out, "  = note: %s\n           at %s\n", step.Message, step.Span)
		} else {
			fmt.Fprintf(f.out, "  = note: %s\n", step.Message)
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "help: %s\n", d.Help)
	} else if d.Suggestion != "" {
		fmt.Fprintln(f.out)
		fmt.Fprintf(f.out, "help: %s\n", d.Suggestion)
	}
	for _, related := range d.Related {
		if related.IsValid() {
			fmt.Fprintln(f.out)
			fmt.Fprintf(f.out, "  = note: related location at %s\n", related)
		}
	}
}

func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span)
	}
	f.printHelp(d)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
