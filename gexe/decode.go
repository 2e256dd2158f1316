package gexe

import (
	"fmt"

	"github.com/wippyai/gpu-runtime/errors"
	"github.com/wippyai/gpu-runtime/gexe/internal/binary"
)

// Decode parses an executable package blob. All returned data is copied;
// the blob may be reused or discarded afterwards. Decode never touches
// device state.
//
// Structural failures (bad magic or version, truncation, counts or lengths
// running past the end of the blob) return an error matching
// errors.KindMalformedContainer. Per-record field violations return
// errors.KindInvalidDescriptor identifying the offending entry-point index.
func Decode(blob []byte) (*Package, error) {
	r := binary.NewReader(blob)

	magic, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.MalformedContainer("truncated header", err)
	}
	if magic != Magic {
		return nil, errors.MalformedContainer(fmt.Sprintf("invalid magic 0x%08x", magic), nil)
	}

	version, err := r.ReadU32LE()
	if err != nil {
		return nil, errors.MalformedContainer("truncated header", err)
	}
	if version != Version {
		return nil, errors.MalformedContainer(fmt.Sprintf("unsupported version %d", version), nil)
	}

	count, err := r.ReadU32()
	if err != nil {
		return nil, errors.MalformedContainer("read entry point count", err)
	}
	if count > MaxEntryPoints {
		return nil, errors.MalformedContainer(fmt.Sprintf("entry point count %d exceeds limit %d", count, MaxEntryPoints), nil)
	}

	image, err := r.ReadBlob()
	if err != nil {
		return nil, errors.MalformedContainer("read device image", r.WrapError("image", err))
	}

	pkg := &Package{
		Image:       image,
		EntryPoints: make([]EntryPoint, 0, count),
	}

	seen := make(map[string]struct{}, count)
	for i := 0; i < int(count); i++ {
		ep, err := decodeEntryPoint(r, i)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[ep.Name]; dup {
			return nil, errors.InvalidDescriptor(i, fmt.Sprintf("duplicate entry point name %q", ep.Name))
		}
		seen[ep.Name] = struct{}{}
		pkg.EntryPoints = append(pkg.EntryPoints, ep)
	}

	if r.Remaining() != 0 {
		return nil, errors.MalformedContainer(fmt.Sprintf("%d trailing bytes after last record", r.Remaining()), nil)
	}

	return pkg, nil
}

func decodeEntryPoint(r *binary.Reader, index int) (EntryPoint, error) {
	var ep EntryPoint

	name, err := r.ReadName()
	if err != nil {
		return ep, truncatedRecord(r, index, "name", err)
	}
	if name == "" {
		return ep, errors.InvalidDescriptor(index, "empty entry point name")
	}
	ep.Name = name

	for j := 0; j < 3; j++ {
		v, err := r.ReadU32()
		if err != nil {
			return ep, truncatedRecord(r, index, "block size", err)
		}
		if v == 0 {
			return ep, errors.InvalidDescriptor(index, fmt.Sprintf("blockSize[%d] is zero", j))
		}
		ep.BlockSize[j] = v
	}

	ep.SharedMemoryBytes, err = r.ReadU32()
	if err != nil {
		return ep, truncatedRecord(r, index, "shared memory size", err)
	}

	flags, err := r.ReadByte()
	if err != nil {
		return ep, truncatedRecord(r, index, "flags", err)
	}
	if flags&^knownFlags != 0 {
		return ep, errors.InvalidDescriptor(index, fmt.Sprintf("unknown flags 0x%02x", flags))
	}

	if flags&flagDiagnostics != 0 {
		diag := &Diagnostics{}
		if diag.SourceFile, err = r.ReadName(); err != nil {
			return ep, truncatedRecord(r, index, "source file", err)
		}
		if diag.SourceLine, err = r.ReadU32(); err != nil {
			return ep, truncatedRecord(r, index, "source line", err)
		}
		if diag.FunctionName, err = r.ReadName(); err != nil {
			return ep, truncatedRecord(r, index, "function name", err)
		}
		ep.Diagnostics = diag
	}

	return ep, nil
}

func truncatedRecord(r *binary.Reader, index int, field string, err error) error {
	return errors.MalformedContainer(
		fmt.Sprintf("record %d truncated reading %s", index, field),
		r.WrapError(fmt.Sprintf("record %d %s", index, field), err),
	)
}
