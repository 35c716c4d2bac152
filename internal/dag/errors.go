package dag

import "errors"

// ErrCyclesDetected is returned by Validate when the graph contains one or
// more cycles.
var ErrCyclesDetected = errors.New("cycles were detected in the graph")
