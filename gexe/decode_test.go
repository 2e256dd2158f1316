package gexe_test

import (
	"bytes"
	"errors"
	"testing"

	gpuerrors "github.com/wippyai/gpu-runtime/errors"
	"github.com/wippyai/gpu-runtime/gexe"
)

func samplePackage() *gexe.Package {
	return &gexe.Package{
		Image: []byte{0x7f, 0x45, 0x4c, 0x46, 0x01, 0x02},
		EntryPoints: []gexe.EntryPoint{
			{
				Name:              "matmul",
				BlockSize:         [3]uint32{8, 8, 1},
				SharedMemoryBytes: 4096,
			},
			{
				Name:              "relu",
				BlockSize:         [3]uint32{256, 1, 1},
				SharedMemoryBytes: 0,
				Diagnostics: &gexe.Diagnostics{
					SourceFile:   "model.mlir",
					SourceLine:   42,
					FunctionName: "relu_dispatch_0",
				},
			},
		},
	}
}

func isDecodeErr(t *testing.T, err error, kind gpuerrors.Kind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, &gpuerrors.Error{Phase: gpuerrors.PhaseDecode, Kind: kind}) {
		t.Fatalf("expected decode/%s, got %v", kind, err)
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	want := samplePackage()
	got, err := gexe.Decode(want.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if !bytes.Equal(got.Image, want.Image) {
		t.Errorf("image = %x, want %x", got.Image, want.Image)
	}
	if len(got.EntryPoints) != 2 {
		t.Fatalf("entry points = %d, want 2", len(got.EntryPoints))
	}
	for i, ep := range got.EntryPoints {
		w := want.EntryPoints[i]
		if ep.Name != w.Name {
			t.Errorf("entry %d name = %q, want %q", i, ep.Name, w.Name)
		}
		if ep.BlockSize != w.BlockSize {
			t.Errorf("entry %d blockSize = %v, want %v", i, ep.BlockSize, w.BlockSize)
		}
		if ep.SharedMemoryBytes != w.SharedMemoryBytes {
			t.Errorf("entry %d sharedMemoryBytes = %d, want %d", i, ep.SharedMemoryBytes, w.SharedMemoryBytes)
		}
	}

	if got.EntryPoints[0].Diagnostics != nil {
		t.Error("entry 0 should have no diagnostics")
	}
	diag := got.EntryPoints[1].Diagnostics
	if diag == nil {
		t.Fatal("entry 1 diagnostics missing")
	}
	if diag.SourceFile != "model.mlir" || diag.SourceLine != 42 || diag.FunctionName != "relu_dispatch_0" {
		t.Errorf("diagnostics = %+v", diag)
	}
}

func TestDecodeCopiesData(t *testing.T) {
	blob := samplePackage().Encode()
	pkg, err := gexe.Decode(blob)
	if err != nil {
		t.Fatal(err)
	}
	for i := range blob {
		blob[i] = 0
	}
	if pkg.EntryPoints[0].Name != "matmul" {
		t.Error("decoded data aliases the input blob")
	}
	if !bytes.Equal(pkg.Image, []byte{0x7f, 0x45, 0x4c, 0x46, 0x01, 0x02}) {
		t.Error("decoded image aliases the input blob")
	}
}

func TestDecodeEmptyPackage(t *testing.T) {
	pkg, err := gexe.Decode((&gexe.Package{Image: []byte{1}}).Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(pkg.EntryPoints) != 0 {
		t.Errorf("entry points = %d, want 0", len(pkg.EntryPoints))
	}
}

func TestDecodeInvalidMagic(t *testing.T) {
	blob := samplePackage().Encode()
	blob[1] = 'X'
	_, err := gexe.Decode(blob)
	isDecodeErr(t, err, gpuerrors.KindMalformedContainer)
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	blob := samplePackage().Encode()
	blob[4] = 9
	_, err := gexe.Decode(blob)
	isDecodeErr(t, err, gpuerrors.KindMalformedContainer)
}

func TestDecodeTruncatedHeader(t *testing.T) {
	blob := samplePackage().Encode()
	for _, n := range []int{0, 3, 7} {
		if _, err := gexe.Decode(blob[:n]); err == nil {
			t.Errorf("length %d: expected error", n)
		}
	}
}

func TestDecodeTruncatedRecords(t *testing.T) {
	blob := samplePackage().Encode()
	// Chop the blob anywhere inside the record region; every cut must fail
	// as a malformed container, never panic.
	for n := 9; n < len(blob); n++ {
		_, err := gexe.Decode(blob[:n])
		if err == nil {
			t.Fatalf("length %d: expected error", n)
		}
	}
}

func TestDecodeDeclaredCountExceedsRecords(t *testing.T) {
	pkg := samplePackage()
	blob := pkg.Encode()
	// Raise the declared count from 2 to 3 (single-byte LEB at offset 8).
	if blob[8] != 2 {
		t.Fatalf("fixture drift: count byte = %d", blob[8])
	}
	blob[8] = 3
	_, err := gexe.Decode(blob)
	isDecodeErr(t, err, gpuerrors.KindMalformedContainer)
}

func TestDecodeTrailingData(t *testing.T) {
	blob := append(samplePackage().Encode(), 0x00)
	_, err := gexe.Decode(blob)
	isDecodeErr(t, err, gpuerrors.KindMalformedContainer)
}

func TestDecodeEmptyName(t *testing.T) {
	pkg := samplePackage()
	pkg.EntryPoints[1].Name = ""
	_, err := gexe.Decode(pkg.Encode())
	isDecodeErr(t, err, gpuerrors.KindInvalidDescriptor)

	var e *gpuerrors.Error
	if !errors.As(err, &e) || e.EntryPoint != 1 {
		t.Errorf("expected entry point 1, got %v", err)
	}
}

func TestDecodeDuplicateName(t *testing.T) {
	pkg := samplePackage()
	pkg.EntryPoints[1].Name = "matmul"
	_, err := gexe.Decode(pkg.Encode())
	isDecodeErr(t, err, gpuerrors.KindInvalidDescriptor)
}

func TestDecodeZeroBlockSize(t *testing.T) {
	for j := 0; j < 3; j++ {
		pkg := samplePackage()
		pkg.EntryPoints[0].BlockSize[j] = 0
		_, err := gexe.Decode(pkg.Encode())
		isDecodeErr(t, err, gpuerrors.KindInvalidDescriptor)

		var e *gpuerrors.Error
		if !errors.As(err, &e) || e.EntryPoint != 0 {
			t.Errorf("component %d: expected entry point 0, got %v", j, err)
		}
	}
}

func TestDecodeHugeEntryCount(t *testing.T) {
	pkg := &gexe.Package{Image: []byte{1}}
	blob := pkg.Encode()
	// Replace the zero count with a 5-byte LEB for 2^28, keeping the rest.
	patched := append([]byte{}, blob[:8]...)
	patched = append(patched, 0x80, 0x80, 0x80, 0x80, 0x01)
	patched = append(patched, blob[9:]...)
	_, err := gexe.Decode(patched)
	isDecodeErr(t, err, gpuerrors.KindMalformedContainer)
}
