package result

// Result is the envelope every audit API call resolves to.
// Data is set only when Success is true, Error only when it is false.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: &data}
}

func Fail[T any](msg string) Result[T] {
	return Result[T]{Success: false, Error: msg}
}
