package types

// ConstError is an error whose value is a constant string, so it can be
// declared in a `const` block and compared with `errors.Is`.
type ConstError string

func (err ConstError) Error() string { return string(err) }
