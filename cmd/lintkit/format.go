package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// formatDefText formats a CLIDef as aligned columns.
func formatDefText(w io.Writer, d CLIDef) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tDEF")
	fmt.Fprintf(tw, "%s\t%s\t%d:%d\n", d.Path, d.Kind, d.Crate, d.Index)
	tw.Flush()
}

// formatSpanText formats a span as "file:line:col lo..hi#ctxt" followed
// by its source text on the next line.
func formatSpanText(w io.Writer, s CLISpan) {
	fmt.Fprintf(w, "%s %d..%d#%d\n", location(s), s.Lo, s.Hi, s.Ctxt)
	if s.Snippet != "" {
		fmt.Fprintf(w, "  %s\n", s.Snippet)
	}
}

// formatChainText formats an expansion chain as aligned columns.
func formatChainText(w io.Writer, chain []CLIExpansion) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CALLEE\tFORMAT\tCALL SITE\tDEFINED AT")
	for _, x := range chain {
		def := "-"
		if x.CalleeSpan != nil {
			def = location(*x.CalleeSpan)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", x.Callee, x.Format, location(x.CallSite), def)
	}
	tw.Flush()
}

// formatFindingsText formats findings one per line, compiler style.
func formatFindingsText(w io.Writer, findings []CLIFinding) {
	for _, f := range findings {
		fmt.Fprintf(w, "%s: %s: %s\n", location(f.Span), f.Check, f.Message)
	}
	if len(findings) > 0 {
		fmt.Fprintf(w, "\n%d finding(s)\n", len(findings))
	}
}

// location renders a span's file position, falling back to raw offsets.
func location(s CLISpan) string {
	if s.File == "" {
		return fmt.Sprintf("%d..%d#%d", s.Lo, s.Hi, s.Ctxt)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}

// outputResultText dispatches to the appropriate text formatter based on
// the result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLIImport:
		fmt.Fprintf(w, "Imported %s\nFingerprint: %s\n", v.Path, v.Fingerprint)
	case string:
		fmt.Fprintln(w, v)
	case CLIDef:
		formatDefText(w, v)
	case CLISpan:
		formatSpanText(w, v)
	case []CLIExpansion:
		formatChainText(w, v)
	case []CLIFinding:
		formatFindingsText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputResult writes a CLIResult to the command's stdout in the selected
// format.
func (c *cli) outputResult(cmd *cobra.Command, result CLIResult) error {
	if c.flagFormat == "text" {
		return outputResultText(cmd.OutOrStdout(), result)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func (c *cli) outputError(cmd *cobra.Command, command string, err error) error {
	c.errorHandled = true
	if c.flagFormat == "text" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
