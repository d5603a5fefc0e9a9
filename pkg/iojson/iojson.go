// iojson are utilities for writing JSON output from a command line
// interface perspective.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Write marshals obj with indentation and prints it to stdout.
func Write(obj any) error {
	return WriteWith(os.Stdout, obj)
}

// WriteWith marshals obj with indentation and prints it to w.
func WriteWith(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine marshals obj onto a single line (JSON lines output).
func WriteLine(w io.Writer, obj any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(obj)
}
