// Package loader turns compiled executable packages into live device
// modules with resolved kernel entry points.
//
// # Quick Start
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
//	if err != nil {
//	    log.Fatal(err)
//	}
//	dispatch(kp.Function, kp.BlockSize, kp.SharedMemoryBytes, kp.Layout)
//
// # Construction Guarantees
//
// Create is all-or-nothing: the launch-parameter table is never partially
// populated. The caller's declared entry-point count is cross-checked
// against the package before any driver call is made, and every failure
// after module instantiation releases the module before the error is
// returned. Errors carry the failing entry-point index or symbol name; see
// the errors package for the taxonomy.
//
// Kernels whose shared-memory requirement exceeds the device's static limit
// are opted into the device's dynamic shared-memory attribute during
// resolution; a kernel the device cannot accommodate at all fails the load.
//
// # Thread Safety
//
// A created Executable is immutable: KernelParams may be called from any
// number of goroutines without locking. Concurrent Create calls against the
// same driver are independent; any serialization the underlying driver
// context needs is the driver implementation's responsibility.
//
// Destroy is not synchronized against readers. The owner must guarantee no
// KernelParams call is in flight or made afterwards, and must call Destroy
// exactly once.
//
// # Diagnostics
//
// Source metadata embedded by instrumented compiler builds is forwarded
// into each KernelParams entry. Building with -tags nogpudiag strips the
// forwarding at compile time with no other behavioral effect.
package loader
