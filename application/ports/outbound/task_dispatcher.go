package outbound

// TaskDispatcher hides the worker pool behind a port so services never
// spawn goroutines themselves. Satisfied by *ants.Pool.
type TaskDispatcher interface {
	Submit(task func()) error
}
