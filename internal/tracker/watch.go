package tracker

import "github.com/flowtrace/flowtrace/internal/nodetree"

// Token identifies one in-flight watched call between Enter and Exit.
// The zero Token means the call is not being tracked.
type Token uint64

// Enter starts tracking one call of ident. It is the low-level half of
// the interception boundary for hosts that instrument call sites
// explicitly; most callers use Watch instead. Enter and Exit must nest
// like the calls they bracket.
func (t *Tracker) Enter(ident nodetree.Ident) Token {
	if t.disabled || t.isExcluded(ident.Key()) {
		return 0
	}
	// The bookkeeping around this call costs clock reads that enclosing
	// timers should not be billed for.
	t.timers.Discount(1)
	t.FunctionCalled(ident)
	return Token(t.timers.Register())
}

// Exit finishes tracking the call started by the matching Enter.
func (t *Tracker) Exit(ident nodetree.Ident, tok Token) {
	if tok == 0 {
		return
	}
	d := t.timers.TimeAndRemove(uint64(tok))
	t.timers.Discount(1)
	t.FunctionReturned(ident, d)
}

// Watch wraps fn with enter/exit instrumentation under ident. The
// wrapper never alters fn's behavior: panics propagate unchanged and
// the exit is still recorded when fn panics.
func (t *Tracker) Watch(ident nodetree.Ident, fn func()) func() {
	return func() {
		tok := t.Enter(ident)
		defer t.Exit(ident, tok)
		fn()
	}
}

// WatchErr is Watch for functions returning an error.
func (t *Tracker) WatchErr(ident nodetree.Ident, fn func() error) func() error {
	return func() error {
		tok := t.Enter(ident)
		defer t.Exit(ident, tok)
		return fn()
	}
}
