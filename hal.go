package gpuruntime

import "context"

// ModuleHandle identifies an instantiated device module. The concrete type
// is owned by the Driver that produced it and is opaque to everything else.
type ModuleHandle any

// FunctionHandle identifies a kernel function resolved from a device module.
// Handles are weak: they are owned by the module and become invalid when the
// module is released. They are never released individually.
type FunctionHandle any

// PipelineLayout is an externally owned binding/argument schema reference.
// The loader stores and forwards it without interpreting its contents.
type PipelineLayout any

// DeviceLimits describes the shared-memory envelope of a device.
type DeviceLimits struct {
	// MaxStaticSharedMemoryBytes is the per-kernel shared-memory size the
	// device accepts without an explicit opt-in.
	MaxStaticSharedMemoryBytes uint32

	// MaxDynamicSharedMemoryBytes is the hard ceiling reachable through
	// Driver.SetMaxDynamicSharedMemory.
	MaxDynamicSharedMemoryBytes uint32
}

// Driver is the capability object exposing device-driver operations to the
// loader. Implementations wrap a concrete driver API (CUDA-style runtime,
// WebGPU, or a software device); the loader never touches driver state
// except through this interface.
//
// InstantiateModule may block for non-trivial wall time (module loading is
// often JIT-like). Implementations decide how much serialization their
// underlying driver context needs; the loader issues calls for a single
// create sequentially and never shares handles across drivers.
type Driver interface {
	// InstantiateModule loads a device-code image and returns a handle to
	// the driver-resident module.
	InstantiateModule(ctx context.Context, image []byte) (ModuleHandle, error)

	// ResolveFunction looks up a kernel entry point by name within a module
	// previously returned by InstantiateModule.
	ResolveFunction(ctx context.Context, module ModuleHandle, name string) (FunctionHandle, error)

	// SetMaxDynamicSharedMemory opts a function into a shared-memory size
	// above the device's static limit.
	SetMaxDynamicSharedMemory(ctx context.Context, fn FunctionHandle, bytes uint32) error

	// ReleaseModule releases a module and invalidates every function handle
	// resolved from it. Must be called exactly once per instantiated module.
	ReleaseModule(ctx context.Context, module ModuleHandle)

	// Limits reports the device's shared-memory limits.
	Limits() DeviceLimits
}
