package loader

import (
	"context"

	"go.uber.org/zap"

	gpuruntime "github.com/wippyai/gpu-runtime"
	"github.com/wippyai/gpu-runtime/errors"
	"github.com/wippyai/gpu-runtime/gexe"
)

// CreateParams bundles the inputs to Create.
type CreateParams struct {
	// Package is the serialized executable package blob.
	Package []byte

	// Layouts holds the externally owned pipeline-layout reference for each
	// entry point, aligned by index with the package's descriptor order.
	// May be nil when the dispatch layer does not use layouts; otherwise
	// its length must equal EntryPointCount.
	Layouts []gpuruntime.PipelineLayout

	// EntryPointCount is the entry-point count the caller expects the
	// package to contain, supplied independently as a cross-check against
	// the compiler output.
	EntryPointCount int
}

// Create decodes the package, instantiates the device module through drv,
// resolves every entry point, and assembles the immutable launch-parameter
// table. Either every entry point resolves or Create fails; any failure
// after module instantiation releases the module before returning, so a
// failed Create never leaks driver resources.
//
// Create may block on driver calls for non-trivial wall time (module
// loading is often JIT-like); callers needing responsiveness should invoke
// it off any latency-sensitive goroutine. Two Creates with identical inputs
// produce two independent executables, each owning its own module.
func Create(ctx context.Context, drv gpuruntime.Driver, params CreateParams) (*Executable, error) {
	pkg, err := gexe.Decode(params.Package)
	if err != nil {
		return nil, errors.DecodeFailed(err)
	}

	if len(pkg.EntryPoints) != params.EntryPointCount {
		return nil, errors.CountMismatch(params.EntryPointCount, len(pkg.EntryPoints))
	}
	if params.Layouts != nil && len(params.Layouts) != params.EntryPointCount {
		return nil, errors.New(errors.PhaseLoad, errors.KindEntryPointCountMismatch).
			Detail("pipeline layout count %d does not match entry point count %d",
				len(params.Layouts), params.EntryPointCount).
			Build()
	}

	module, err := drv.InstantiateModule(ctx, pkg.Image)
	if err != nil {
		return nil, errors.ModuleLoad(err)
	}

	table, err := resolveTable(ctx, drv, module, pkg, params.Layouts)
	if err != nil {
		drv.ReleaseModule(ctx, module)
		return nil, err
	}

	logger().Debug("executable created",
		zap.Int("entry_points", len(table)),
		zap.Int("image_bytes", len(pkg.Image)))

	return &Executable{
		driver: drv,
		module: module,
		table:  table,
	}, nil
}

// resolveTable resolves every entry point in descriptor order. Resolution
// is sequential; the all-or-nothing guarantee is what matters, not
// parallelism within one create.
func resolveTable(ctx context.Context, drv gpuruntime.Driver, module gpuruntime.ModuleHandle, pkg *gexe.Package, layouts []gpuruntime.PipelineLayout) ([]KernelParams, error) {
	limits := drv.Limits()
	table := make([]KernelParams, len(pkg.EntryPoints))

	for i := range pkg.EntryPoints {
		ep := &pkg.EntryPoints[i]

		fn, err := drv.ResolveFunction(ctx, module, ep.Name)
		if err != nil {
			return nil, errors.SymbolNotFound(i, ep.Name, err)
		}

		if ep.SharedMemoryBytes > limits.MaxStaticSharedMemoryBytes {
			if ep.SharedMemoryBytes > limits.MaxDynamicSharedMemoryBytes {
				return nil, errors.New(errors.PhaseLoad, errors.KindSharedMemoryConfig).
					EntryPoint(i).
					Symbol(ep.Name).
					Detail("%d bytes of shared memory exceed device maximum %d",
						ep.SharedMemoryBytes, limits.MaxDynamicSharedMemoryBytes).
					Build()
			}
			if err := drv.SetMaxDynamicSharedMemory(ctx, fn, ep.SharedMemoryBytes); err != nil {
				return nil, errors.SharedMemoryConfig(i, ep.Name, ep.SharedMemoryBytes, err)
			}
		}

		var layout gpuruntime.PipelineLayout
		if layouts != nil {
			layout = layouts[i]
		}

		table[i] = KernelParams{
			Function:          fn,
			BlockSize:         ep.BlockSize,
			SharedMemoryBytes: ep.SharedMemoryBytes,
			Layout:            layout,
			Diagnostics:       diagnosticsFor(ep),
		}
	}

	return table, nil
}
