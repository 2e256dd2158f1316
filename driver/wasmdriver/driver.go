// Package wasmdriver implements the gpuruntime.Driver capability on top of
// wazero. Device-code images are WebAssembly binaries and kernel entry
// points are their exported functions.
//
// It exists as a software reference device: loader integration paths can be
// exercised on any machine, with real module instantiation and symbol
// resolution semantics, without GPU hardware or a native driver library.
package wasmdriver

import (
	"context"
	"fmt"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	gpuruntime "github.com/wippyai/gpu-runtime"
	"github.com/wippyai/gpu-runtime/errors"
)

// Config holds configuration for driver creation.
type Config struct {
	// MaxStaticSharedMemoryBytes and MaxDynamicSharedMemoryBytes shape the
	// limits the driver reports. Zero values use defaults sized like a
	// discrete device (48KiB static, 96KiB dynamic).
	MaxStaticSharedMemoryBytes  uint32
	MaxDynamicSharedMemoryBytes uint32
}

const (
	defaultStaticSharedMemory  = 48 * 1024
	defaultDynamicSharedMemory = 96 * 1024
)

// Driver is a software device backed by a wazero runtime. Modules
// instantiated through it are independent; the driver itself is safe for
// concurrent use.
type Driver struct {
	runtime wazero.Runtime
	limits  gpuruntime.DeviceLimits
}

// New creates a driver with default limits.
func New(ctx context.Context) (*Driver, error) {
	return NewWithConfig(ctx, nil)
}

// NewWithConfig creates a driver with custom limits.
func NewWithConfig(ctx context.Context, cfg *Config) (*Driver, error) {
	limits := gpuruntime.DeviceLimits{
		MaxStaticSharedMemoryBytes:  defaultStaticSharedMemory,
		MaxDynamicSharedMemoryBytes: defaultDynamicSharedMemory,
	}
	if cfg != nil {
		if cfg.MaxStaticSharedMemoryBytes > 0 {
			limits.MaxStaticSharedMemoryBytes = cfg.MaxStaticSharedMemoryBytes
		}
		if cfg.MaxDynamicSharedMemoryBytes > 0 {
			limits.MaxDynamicSharedMemoryBytes = cfg.MaxDynamicSharedMemoryBytes
		}
	}

	return &Driver{
		runtime: wazero.NewRuntime(ctx),
		limits:  limits,
	}, nil
}

// Close releases the underlying runtime. All modules instantiated through
// the driver must be released first.
func (d *Driver) Close(ctx context.Context) error {
	return d.runtime.Close(ctx)
}

// deviceModule is the concrete gpuruntime.ModuleHandle for this driver.
type deviceModule struct {
	instance api.Module
}

// deviceFunction is the concrete gpuruntime.FunctionHandle for this driver.
type deviceFunction struct {
	fn   api.Function
	name string

	// dynamicSharedMemory records the opt-in requested by the loader. A
	// software device has no real shared memory; the value is kept so
	// dispatch layers and tests can observe the configuration.
	dynamicSharedMemory uint32
}

func (d *Driver) InstantiateModule(ctx context.Context, image []byte) (gpuruntime.ModuleHandle, error) {
	compiled, err := d.runtime.CompileModule(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("compile device image: %w", err)
	}

	// Anonymous instantiation: the same image may be loaded any number of
	// times, each instance independent.
	instance, err := d.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(""))
	if err != nil {
		return nil, fmt.Errorf("instantiate device image: %w", err)
	}

	logger().Debug("module instantiated", zap.Int("image_bytes", len(image)))
	return &deviceModule{instance: instance}, nil
}

func (d *Driver) ResolveFunction(ctx context.Context, module gpuruntime.ModuleHandle, name string) (gpuruntime.FunctionHandle, error) {
	m, ok := module.(*deviceModule)
	if !ok {
		return nil, fmt.Errorf("module handle not owned by this driver")
	}

	fn := m.instance.ExportedFunction(name)
	if fn == nil {
		return nil, fmt.Errorf("module does not export %q", name)
	}
	return &deviceFunction{fn: fn, name: name}, nil
}

func (d *Driver) SetMaxDynamicSharedMemory(ctx context.Context, fn gpuruntime.FunctionHandle, bytes uint32) error {
	f, ok := fn.(*deviceFunction)
	if !ok {
		return fmt.Errorf("function handle not owned by this driver")
	}
	if bytes > d.limits.MaxDynamicSharedMemoryBytes {
		return errors.Unsupported(fmt.Sprintf("%d bytes exceed dynamic shared memory limit %d",
			bytes, d.limits.MaxDynamicSharedMemoryBytes))
	}
	f.dynamicSharedMemory = bytes
	return nil
}

func (d *Driver) ReleaseModule(ctx context.Context, module gpuruntime.ModuleHandle) {
	m, ok := module.(*deviceModule)
	if !ok {
		return
	}
	if err := m.instance.Close(ctx); err != nil {
		logger().Warn("release module", zap.Error(err))
	}
}

func (d *Driver) Limits() gpuruntime.DeviceLimits {
	return d.limits
}

// Invoke calls a resolved kernel with the given stack values. It is a
// convenience for dispatch layers built on the software device and plays no
// part in loading.
func (d *Driver) Invoke(ctx context.Context, fn gpuruntime.FunctionHandle, stack ...uint64) ([]uint64, error) {
	f, ok := fn.(*deviceFunction)
	if !ok {
		return nil, fmt.Errorf("function handle not owned by this driver")
	}
	return f.fn.Call(ctx, stack...)
}
