package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// IO carries the command's output streams.
type IO struct {
	out    io.Writer
	errOut io.Writer
}

func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.out, format, a...)
}

func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Table returns a writer that aligns tab-separated columns. Callers must
// Flush it.
func (o *IO) Table() *tabwriter.Writer {
	return tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
}

// Out exposes stdout for encoders.
func (o *IO) Out() io.Writer { return o.out }
