package expr

import "fmt"

// EvalError wraps a failure raised by a callable during evaluation,
// carrying the function name and a snapshot of the argument bindings.
// One eval failure never poisons the DAG; the next Eval call starts
// clean.
type EvalError struct {
	Fn   string
	Args string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("while evaluating %s with {%s}: %v", e.Fn, e.Args, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

// ContractError reports a reification contract violation: mismatched
// child names or a child whose dtype is not a subtype of the declared
// argument type. This is a defective reifier or bag, not a recoverable
// compile state.
type ContractError struct {
	Fn  string
	Msg string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("reification contract violated in %s: %s", e.Fn, e.Msg)
}
