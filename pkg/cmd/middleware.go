package cmd

// Middleware wraps a command (logging, permission checks, ...). The wrapped
// value remains a Command.
type Middleware func(Command) Command

// Apply applies middlewares in order; the last listed ends up outermost.
func Apply(c Command, mws ...Middleware) Command {
	for _, mw := range mws {
		c = mw(c)
	}
	return c
}
