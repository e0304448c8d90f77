// Package pipeline accumulates unary transform functions and composes them
// into a single function applied in registration order.
package pipeline

// Func is one pipeline stage. A stage returns its result or the error that
// stops the pipeline.
type Func[T any] func(T) (T, error)

// Identity returns its input unchanged.
func Identity[T any](x T) (T, error) { return x, nil }

// Then returns a function that runs acc and feeds its result into next.
// The first error is returned as is and next does not run.
func Then[T any](acc, next Func[T]) Func[T] {
	return func(x T) (T, error) {
		y, err := acc(x)
		if err != nil {
			return y, err
		}
		return next(y)
	}
}

// Pipeline is an ordered list of stages. The zero value is an empty
// pipeline ready to use. It is not safe for concurrent use.
type Pipeline[T any] struct {
	stages []Func[T]
}

// New returns a pipeline holding fns in order.
func New[T any](fns ...Func[T]) *Pipeline[T] {
	p := &Pipeline[T]{}
	p.Append(fns...)
	return p
}

// Append registers fns after the existing stages. Nil functions are skipped.
func (p *Pipeline[T]) Append(fns ...Func[T]) {
	for _, fn := range fns {
		if fn != nil {
			p.stages = append(p.stages, fn)
		}
	}
}

// Len returns the number of registered stages.
func (p *Pipeline[T]) Len() int { return len(p.stages) }

// Reset drops every stage.
func (p *Pipeline[T]) Reset() { p.stages = nil }

// Compose folds the currently registered stages left to right:
// Compose()(x) == fn(...f2(f1(x))). Stages appended afterwards do not affect
// the returned function. An empty pipeline composes to Identity.
func (p *Pipeline[T]) Compose() Func[T] {
	composed := Func[T](Identity[T])
	for i, fn := range p.stages {
		if i == 0 {
			composed = fn
			continue
		}
		composed = Then(composed, fn)
	}
	return composed
}
