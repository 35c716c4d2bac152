package runner

import (
	"fmt"

	"github.com/vk/qgraph/internal/qfunction"
)

// Factory builds the backend-appropriate JobRunner for one function edge:
// CommandLineFunction with batch enabled goes to whichever batch backend
// was selected, CommandLineFunction without batch goes to the shell
// runner, and InProcessFunction always runs in-process regardless of the
// selected backend.
type Factory struct {
	Backend          Backend
	LsfConfig        LsfConfig
	GridEngineConfig GridEngineConfig
}

// New constructs the JobRunner for fn, or an error if fn satisfies
// neither CommandLineFunction nor InProcessFunction. An unexpected
// runner type is surfaced here as a plain error rather than a panic.
func (f Factory) New(fn qfunction.QFunction) (JobRunner, error) {
	if inProc, ok := fn.(qfunction.InProcessFunction); ok {
		return NewInProcessRunner(inProc), nil
	}

	cmdLine, ok := fn.(qfunction.CommandLineFunction)
	if !ok {
		return nil, fmt.Errorf("runner: function %q is neither CommandLineFunction nor InProcessFunction", fn.AnalysisName())
	}

	if !cmdLine.UseBatchSystem() {
		return NewShellJobRunner(cmdLine), nil
	}

	switch f.Backend {
	case BackendLSF:
		return NewLsfJobRunner(cmdLine, f.LsfConfig), nil
	case BackendGridEngine:
		return NewGridEngineJobRunner(cmdLine, f.GridEngineConfig), nil
	case BackendShell, "":
		return NewShellJobRunner(cmdLine), nil
	default:
		return nil, fmt.Errorf("runner: unknown backend %q", f.Backend)
	}
}
