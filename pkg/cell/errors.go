package cell

import (
	"errors"
	"fmt"
)

// ErrCycle is matched by errors.Is against the *CycleError panic value.
var ErrCycle = errors.New("dependency cycle detected")

// CycleError is the panic value raised when a cell is read while its own
// recomputation is on the active stack. Only that recomputation is aborted;
// the cell stays stale and its previous edges remain intact.
type CycleError struct {
	// NodeID identifies the cell whose recomputation was re-entered.
	NodeID uint64
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cell: dependency cycle detected at node %d", e.NodeID)
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}
