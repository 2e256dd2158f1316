package loader_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	gpuerrors "github.com/wippyai/gpu-runtime/errors"
	"github.com/wippyai/gpu-runtime/loader"
)

func TestKernelParamsOutOfRange(t *testing.T) {
	ctx := context.Background()
	drv := newFakeDriver()

	exec, err := loader.Create(ctx, drv, loader.CreateParams{
		Package:         twoKernelPackage().Encode(),
		EntryPointCount: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.Destroy(ctx)

	for _, index := range []int{-1, -100, 2, 3, 1 << 20} {
		_, err := exec.KernelParams(index)
		if err == nil {
			t.Errorf("index %d: expected error", index)
			continue
		}
		if !errors.Is(err, &gpuerrors.Error{Phase: gpuerrors.PhaseLookup, Kind: gpuerrors.KindIndexOutOfRange}) {
			t.Errorf("index %d: expected lookup/index_out_of_range, got %v", index, err)
		}
	}
}

func TestKernelParamsBorrowedReferenceStable(t *testing.T) {
	ctx := context.Background()
	drv := newFakeDriver()

	exec, err := loader.Create(ctx, drv, loader.CreateParams{
		Package:         twoKernelPackage().Encode(),
		EntryPointCount: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.Destroy(ctx)

	a, _ := exec.KernelParams(1)
	b, _ := exec.KernelParams(1)
	if a != b {
		t.Error("repeated lookups return different borrowed references")
	}
}

func TestConcurrentKernelParamsReads(t *testing.T) {
	ctx := context.Background()
	drv := newFakeDriver()

	exec, err := loader.Create(ctx, drv, loader.CreateParams{
		Package:         twoKernelPackage().Encode(),
		EntryPointCount: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer exec.Destroy(ctx)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				kp, err := exec.KernelParams(i % exec.EntryPointCount())
				if err != nil {
					t.Errorf("KernelParams: %v", err)
					return
				}
				if kp.BlockSize[0] == 0 {
					t.Error("zero block size observed")
					return
				}
			}
		}()
	}
	wg.Wait()
}
