package yamltree

import "fmt"

// DecodeError is returned when text cannot be parsed as YAML.
type DecodeError struct {
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("invalid YAML in %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("invalid YAML: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError is returned when a value cannot be re-serialized.
type EncodeError struct {
	Key string
	Err error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("failed to encode %q: %v", e.Key, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}
