// Package webgpudriver implements the gpuruntime.Driver capability on top
// of wgpu-native. Device-code images are WGSL source; resolving an entry
// point builds the compute pipeline for that kernel.
package webgpudriver

import (
	"context"
	"fmt"

	"github.com/openfluke/webgpu/wgpu"

	gpuruntime "github.com/wippyai/gpu-runtime"
	"github.com/wippyai/gpu-runtime/errors"
)

// Driver wraps a WebGPU device. Create one with New, which selects an
// adapter and owns the whole chain, or with NewWithDevice to reuse a device
// the application already holds.
type Driver struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	limits   gpuruntime.DeviceLimits
	owned    bool
}

// New creates a driver on a freshly requested high-performance adapter,
// falling back to whatever adapter the platform offers.
func New() (*Driver, error) {
	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		return nil, fmt.Errorf("create webgpu instance")
	}

	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil || adapter == nil {
		adapter, err = instance.RequestAdapter(nil)
	}
	if err != nil || adapter == nil {
		instance.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{})
	if err != nil || device == nil {
		adapter.Release()
		instance.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}

	return &Driver{
		instance: instance,
		adapter:  adapter,
		device:   device,
		limits:   limitsFrom(adapter),
		owned:    true,
	}, nil
}

// NewWithDevice wraps a device owned by the caller. The caller remains
// responsible for releasing it; Close only drops the reference.
func NewWithDevice(device *wgpu.Device, adapter *wgpu.Adapter) *Driver {
	return &Driver{
		device: device,
		limits: limitsFrom(adapter),
	}
}

// limitsFrom maps WebGPU workgroup storage onto the shared-memory model.
// WebGPU has no dynamic opt-in: workgroup storage is declared in the
// shader, so the static and dynamic limits coincide.
func limitsFrom(adapter *wgpu.Adapter) gpuruntime.DeviceLimits {
	storage := adapter.GetLimits().Limits.MaxComputeWorkgroupStorageSize
	return gpuruntime.DeviceLimits{
		MaxStaticSharedMemoryBytes:  storage,
		MaxDynamicSharedMemoryBytes: storage,
	}
}

// Close releases the adapter chain when the driver owns it. All modules
// must be released first.
func (d *Driver) Close() {
	if !d.owned {
		return
	}
	d.device.Release()
	d.adapter.Release()
	d.instance.Release()
}

// shaderModule is the concrete gpuruntime.ModuleHandle for this driver.
// Pipelines built during resolution are owned by the module and released
// with it, matching the weak-handle contract.
type shaderModule struct {
	shader    *wgpu.ShaderModule
	pipelines []*wgpu.ComputePipeline
}

func (d *Driver) InstantiateModule(ctx context.Context, image []byte) (gpuruntime.ModuleHandle, error) {
	shader, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "gexe_image",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: string(image)},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module: %w", err)
	}
	return &shaderModule{shader: shader}, nil
}

func (d *Driver) ResolveFunction(ctx context.Context, module gpuruntime.ModuleHandle, name string) (gpuruntime.FunctionHandle, error) {
	m, ok := module.(*shaderModule)
	if !ok {
		return nil, fmt.Errorf("module handle not owned by this driver")
	}

	pipeline, err := d.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:   name,
		Compute: wgpu.ProgrammableStageDescriptor{Module: m.shader, EntryPoint: name},
	})
	if err != nil {
		return nil, fmt.Errorf("create compute pipeline for %q: %w", name, err)
	}

	m.pipelines = append(m.pipelines, pipeline)
	return pipeline, nil
}

func (d *Driver) SetMaxDynamicSharedMemory(ctx context.Context, fn gpuruntime.FunctionHandle, bytes uint32) error {
	// Never reachable through the loader: the static and dynamic limits
	// coincide, so requirements above the static limit fail the limit check
	// first. Direct callers get a capability error.
	return errors.Unsupported("webgpu declares workgroup storage in the shader; no dynamic opt-in")
}

func (d *Driver) ReleaseModule(ctx context.Context, module gpuruntime.ModuleHandle) {
	m, ok := module.(*shaderModule)
	if !ok {
		return
	}
	for _, p := range m.pipelines {
		p.Release()
	}
	m.pipelines = nil
	m.shader.Release()
}

func (d *Driver) Limits() gpuruntime.DeviceLimits {
	return d.limits
}

// Device exposes the underlying WebGPU device for dispatch layers that need
// to record command encoders against resolved pipelines.
func (d *Driver) Device() *wgpu.Device {
	return d.device
}
