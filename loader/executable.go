package loader

import (
	"context"

	"go.uber.org/zap"

	gpuruntime "github.com/wippyai/gpu-runtime"
	"github.com/wippyai/gpu-runtime/errors"
	"github.com/wippyai/gpu-runtime/gexe"
)

// KernelParams holds everything a dispatch layer needs to launch one entry
// point. The function handle is owned by the executable's device module and
// becomes invalid when the executable is destroyed.
type KernelParams struct {
	Function    gpuruntime.FunctionHandle
	Layout      gpuruntime.PipelineLayout
	Diagnostics *gexe.Diagnostics

	BlockSize         [3]uint32
	SharedMemoryBytes uint32
}

// Executable is a loaded device module plus its launch-parameter table.
//
// An Executable is immutable once created: concurrent KernelParams calls
// from any number of goroutines need no locking. It exclusively owns its
// device module; Destroy releases it and must be called exactly once.
// Using the executable, or any KernelParams obtained from it, after
// Destroy is a contract violation the library does not detect.
type Executable struct {
	driver gpuruntime.Driver
	module gpuruntime.ModuleHandle
	table  []KernelParams
}

// EntryPointCount returns the number of entry points in the table.
func (e *Executable) EntryPointCount() int {
	return len(e.table)
}

// KernelParams returns the launch parameters for the given entry-point
// index. The returned pointer borrows into the executable's table and stays
// valid until Destroy.
func (e *Executable) KernelParams(index int) (*KernelParams, error) {
	if index < 0 || index >= len(e.table) {
		return nil, errors.IndexOutOfRange(index, len(e.table))
	}
	return &e.table[index], nil
}

// Destroy releases the device module, invalidating every function handle in
// the table. Call exactly once.
func (e *Executable) Destroy(ctx context.Context) {
	logger().Debug("executable destroyed", zap.Int("entry_points", len(e.table)))
	e.driver.ReleaseModule(ctx, e.module)
	e.table = nil
}
