package consoles

type Console interface {
	Printf(format string, a ...any)
	Warnf(format string, a ...any)

	// Prepare formats a line the way Printf would, without writing it.
	Prepare(format string, a ...any) string
}
