package consoles

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type writerConsole struct {
	mutex  sync.Mutex
	out    io.Writer
	quiet  bool
	warn   *color.Color
	now    func() time.Time
	prefix string
}

// NewWriterConsole writes to out. A quiet console only writes warnings.
func NewWriterConsole(out io.Writer, quiet bool) Console {
	return NewPrefixedConsole(out, quiet, "")
}

func NewPrefixedConsole(out io.Writer, quiet bool, prefix string) Console {
	return &writerConsole{
		out:    out,
		prefix: prefix,
		quiet:  quiet,
		warn:   color.New(color.FgYellow),
		now:    time.Now,
	}
}

func (o *writerConsole) Printf(format string, a ...any) {
	if o.quiet {
		return
	}

	o.mutex.Lock()
	defer o.mutex.Unlock()

	_, _ = io.WriteString(o.out, o.Prepare(format, a...))
}

func (o *writerConsole) Warnf(format string, a ...any) {
	o.mutex.Lock()
	defer o.mutex.Unlock()

	_, _ = o.warn.Fprint(o.out, o.Prepare(format, a...))
}

func (o *writerConsole) Prepare(format string, a ...any) string {
	builder := strings.Builder{}
	builder.WriteString("[")
	builder.WriteString(o.now().Format("15:04:05"))
	builder.WriteString("] ")
	builder.WriteString(o.prefix)
	builder.WriteString(fmt.Sprintf(format, a...))
	return builder.String()
}
