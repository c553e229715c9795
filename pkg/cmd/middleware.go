package cmd

// Middleware wraps a command handler (e.g. logging, guild check, metrics).
// It receives the command being run so it can read its name.
type Middleware[M any] func(c *Command[M], next HandlerFunc[M]) HandlerFunc[M]

// Apply wraps h in mws; the first in the list is the outermost.
func Apply[M any](c *Command[M], h HandlerFunc[M], mws ...Middleware[M]) HandlerFunc[M] {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](c, h)
	}
	return h
}
