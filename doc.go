// Package gpuruntime provides a loader for compiled GPU executables.
//
// An executable package is a binary artifact produced by an upstream
// compiler: a device-code image plus an ordered list of kernel entry-point
// descriptors (name, launch geometry, shared-memory requirement, optional
// source diagnostics). This library decodes the package, instantiates the
// device module through an injected driver capability, resolves every entry
// point to a device function handle, and exposes the result as an immutable
// launch-parameter table for a dispatch layer to consume.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	gpuruntime/           Root package with the Driver capability interface
//	├── gexe/             Executable package container format (decode/encode)
//	├── loader/           Executable lifecycle and launch-parameter table
//	├── errors/           Structured error types for debugging
//	├── driver/wasmdriver/    Software reference driver backed by wazero
//	└── driver/webgpudriver/  WebGPU driver backed by wgpu-native
//
// # Quick Start
//
// Load an executable package and read launch parameters:
//
//	exec, err := loader.Create(ctx, drv, loader.CreateParams{
//	    Package:         blob,
//	    EntryPointCount: 2,
//	    Layouts:         layouts,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer exec.Destroy(ctx)
//
//	kp, err := exec.KernelParams(0)
//	// kp.Function, kp.BlockSize, kp.SharedMemoryBytes, kp.Layout
//
// # Drivers
//
// The loader is driver-agnostic: any implementation of the Driver interface
// works, which keeps the loader testable with a fake driver. Two real
// implementations ship with the library: wasmdriver runs kernels compiled
// to WebAssembly on wazero (a software device useful for CI), and
// webgpudriver targets actual GPUs through wgpu-native with WGSL images.
//
// # Ownership
//
// A loaded executable exclusively owns its device module. Function handles
// inside the launch-parameter table are weak views owned by the module;
// they must not be used after Destroy. Destroy must be called exactly once.
// Once created, an executable is immutable and safe for unsynchronized
// concurrent reads.
package gpuruntime
