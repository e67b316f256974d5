package domain

// Result carries either a success value or an error condition of a one-shot
// command. The two callback continuations exposed at the runtime boundary
// are both derived from it.
type Result struct {
	Value interface{}
	Err   error
}

// OK wraps a success value.
func OK(value interface{}) Result {
	return Result{Value: value}
}

// Fail wraps an error condition.
func Fail(err error) Result {
	return Result{Err: err}
}

// ResultOf folds a (value, error) pair into a Result.
func ResultOf(value interface{}, err error) Result {
	if err != nil {
		return Fail(err)
	}
	return OK(value)
}

// Deliver invokes exactly one of the two continuations. Nil continuations
// are ignored.
func (r Result) Deliver(onSuccess func(interface{}), onError func(error)) {
	if r.Err != nil {
		if onError != nil {
			onError(r.Err)
		}
		return
	}
	if onSuccess != nil {
		onSuccess(r.Value)
	}
}
