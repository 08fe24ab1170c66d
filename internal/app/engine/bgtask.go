package engine

// BackgroundTaskHandler grants an execution-continuation token while the
// engine must keep running without a foreground context. The engine pairs
// Begin and End around transient states; implementations must treat a
// begin-while-begun or end-while-ended as a no-op.
type BackgroundTaskHandler interface {
	// Begin acquires the token. onExpired is invoked if the OS revokes the
	// execution window before End is called.
	Begin(onExpired func())
	// End releases the token.
	End()
}

// NoopBackgroundTaskHandler is used where no background-execution contract
// exists (servers, CLIs).
type NoopBackgroundTaskHandler struct{}

func (NoopBackgroundTaskHandler) Begin(onExpired func()) {}
func (NoopBackgroundTaskHandler) End()                   {}
