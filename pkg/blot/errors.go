package blot

import (
	"errors"
	"fmt"
)

var (
	// ErrDefinition reports a type that lacks what fabrication needs.
	ErrDefinition = errors.New("blot definition error")
	// ErrCompatibility reports a child type its parent does not allow.
	ErrCompatibility = errors.New("incompatible blot")
	// ErrNotFound reports an unknown type or attribute handler.
	ErrNotFound = errors.New("blot type not found")
	// ErrOptimizeLimit reports optimize passes that never settle.
	ErrOptimizeLimit = errors.New("maximum optimize iterations reached")
)

func incompatible(child, parent Blot) error {
	return fmt.Errorf("%w: cannot insert %s into %s", ErrCompatibility, child.Name(), parent.Name())
}

func orphan(op string, b Blot) error {
	return fmt.Errorf("%s: %s has no parent", op, b.Name())
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// skippable reports construction errors that leave one child unmodeled.
func skippable(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCompatibility)
}

func ignoreIncompatible(err error) error {
	if errors.Is(err, ErrCompatibility) {
		return nil
	}
	return err
}
