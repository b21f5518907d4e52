package main

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// writeJSON prints v on the command's stdout. Terminals get indented output;
// pipes get one compact document per line.
func writeJSON(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	return encodeJSON(out, v, isTerminal(out))
}

// encodeJSON leaves HTML characters unescaped since titles such as
// "Simon & Garfunkel" end up in the output verbatim.
func encodeJSON(w io.Writer, v any, indent bool) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
