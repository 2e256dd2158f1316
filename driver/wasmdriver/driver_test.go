package wasmdriver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/wippyai/gpu-runtime/driver/wasmdriver"
	gpuerrors "github.com/wippyai/gpu-runtime/errors"
	"github.com/wippyai/gpu-runtime/gexe"
	"github.com/wippyai/gpu-runtime/loader"
)

// twoKernelImage is a minimal wasm module exporting two no-op functions,
// "matmul" and "relu", standing in for compiled kernels.
var twoKernelImage = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // header
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00, // type: () -> ()
	0x03, 0x02, 0x01, 0x00, // func: 1 function, type 0
	0x07, 0x11, 0x02, // export: 2 entries
	0x06, 'm', 'a', 't', 'm', 'u', 'l', 0x00, 0x00,
	0x04, 'r', 'e', 'l', 'u', 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b, // code: empty body
}

func newDriver(t *testing.T) *wasmdriver.Driver {
	t.Helper()
	ctx := context.Background()
	drv, err := wasmdriver.New(ctx)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = drv.Close(ctx) })
	return drv
}

func TestInstantiateAndResolve(t *testing.T) {
	ctx := context.Background()
	drv := newDriver(t)

	module, err := drv.InstantiateModule(ctx, twoKernelImage)
	if err != nil {
		t.Fatalf("InstantiateModule: %v", err)
	}
	defer drv.ReleaseModule(ctx, module)

	for _, name := range []string{"matmul", "relu"} {
		fn, err := drv.ResolveFunction(ctx, module, name)
		if err != nil {
			t.Errorf("ResolveFunction(%q): %v", name, err)
			continue
		}
		if _, err := drv.Invoke(ctx, fn); err != nil {
			t.Errorf("Invoke(%q): %v", name, err)
		}
	}
}

func TestResolveMissingExport(t *testing.T) {
	ctx := context.Background()
	drv := newDriver(t)

	module, err := drv.InstantiateModule(ctx, twoKernelImage)
	if err != nil {
		t.Fatal(err)
	}
	defer drv.ReleaseModule(ctx, module)

	if _, err := drv.ResolveFunction(ctx, module, "softmax"); err == nil {
		t.Error("expected error for missing export")
	}
}

func TestInstantiateBadImage(t *testing.T) {
	ctx := context.Background()
	drv := newDriver(t)

	if _, err := drv.InstantiateModule(ctx, []byte("not wasm")); err == nil {
		t.Error("expected error for invalid image")
	}
}

func TestSharedMemoryLimits(t *testing.T) {
	ctx := context.Background()
	drv, err := wasmdriver.NewWithConfig(ctx, &wasmdriver.Config{
		MaxStaticSharedMemoryBytes:  1024,
		MaxDynamicSharedMemoryBytes: 2048,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer drv.Close(ctx)

	limits := drv.Limits()
	if limits.MaxStaticSharedMemoryBytes != 1024 || limits.MaxDynamicSharedMemoryBytes != 2048 {
		t.Fatalf("limits = %+v", limits)
	}

	module, err := drv.InstantiateModule(ctx, twoKernelImage)
	if err != nil {
		t.Fatal(err)
	}
	defer drv.ReleaseModule(ctx, module)

	fn, err := drv.ResolveFunction(ctx, module, "matmul")
	if err != nil {
		t.Fatal(err)
	}

	if err := drv.SetMaxDynamicSharedMemory(ctx, fn, 2048); err != nil {
		t.Errorf("opt-in within limit: %v", err)
	}
	if err := drv.SetMaxDynamicSharedMemory(ctx, fn, 4096); err == nil {
		t.Error("expected error beyond dynamic limit")
	}
}

func TestLoaderOverSoftwareDevice(t *testing.T) {
	ctx := context.Background()
	drv := newDriver(t)

	pkg := &gexe.Package{
		Image: twoKernelImage,
		EntryPoints: []gexe.EntryPoint{
			{Name: "matmul", BlockSize: [3]uint32{8, 8, 1}, SharedMemoryBytes: 4096},
			{Name: "relu", BlockSize: [3]uint32{256, 1, 1}, SharedMemoryBytes: 0},
		},
	}

	exec, err := loader.Create(ctx, drv, loader.CreateParams{
		Package:         pkg.Encode(),
		EntryPointCount: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer exec.Destroy(ctx)

	kp, err := exec.KernelParams(0)
	if err != nil {
		t.Fatal(err)
	}
	if kp.BlockSize != [3]uint32{8, 8, 1} {
		t.Errorf("blockSize = %v", kp.BlockSize)
	}
	if _, err := drv.Invoke(ctx, kp.Function); err != nil {
		t.Errorf("Invoke resolved kernel: %v", err)
	}
}

func TestLoaderSymbolNotFoundOverSoftwareDevice(t *testing.T) {
	ctx := context.Background()
	drv := newDriver(t)

	pkg := &gexe.Package{
		Image: twoKernelImage,
		EntryPoints: []gexe.EntryPoint{
			{Name: "softmax", BlockSize: [3]uint32{64, 1, 1}},
		},
	}

	_, err := loader.Create(ctx, drv, loader.CreateParams{
		Package:         pkg.Encode(),
		EntryPointCount: 1,
	})
	if !errors.Is(err, &gpuerrors.Error{Phase: gpuerrors.PhaseLoad, Kind: gpuerrors.KindSymbolNotFound}) {
		t.Fatalf("expected symbol_not_found, got %v", err)
	}
}
