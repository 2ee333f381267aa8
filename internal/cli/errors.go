package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type rejectedError struct {
	op     string
	reason string
}

func (e rejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.op, e.reason)
}

func errRejected(op, reason string) error {
	return rejectedError{op: op, reason: reason}
}
