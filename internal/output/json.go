package output

import (
	"encoding/json"
	"io"

	"github.com/bgricker/testdash/internal/report"
)

// JSONRenderer emits the run report as JSON.
type JSONRenderer struct {
	out io.Writer
}

// NewJSON creates a JSON renderer writing to out.
func NewJSON(out io.Writer) *JSONRenderer {
	return &JSONRenderer{out: out}
}

// Render encodes the report as JSON.
func (j *JSONRenderer) Render(r report.Report) error {
	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
