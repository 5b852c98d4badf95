package executor

// Promise is the handle of a statement run on a worker goroutine. It
// carries no correctness burden beyond one-session-per-task: the function
// it runs must own its session.
type Promise struct {
	done chan struct{}
	err  error
}

// Async runs fn on its own goroutine and returns a promise for its
// completion.
func Async(fn func() error) *Promise {
	p := &Promise{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.err = fn()
	}()
	return p
}

// Wait blocks until the work finishes and returns its error.
func (p *Promise) Wait() error {
	<-p.done
	return p.err
}

// Done exposes the completion channel for select loops.
func (p *Promise) Done() <-chan struct{} { return p.done }
