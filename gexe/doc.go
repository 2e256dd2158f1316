// Package gexe implements the executable package container format produced
// by the upstream device-code compiler.
//
// A package bundles one device-code image with an ordered list of kernel
// entry-point descriptors. The descriptor order is significant: the index
// of a descriptor is the entry-point identifier used by the loader and the
// dispatch layer.
//
// # Binary Layout
//
// Multi-byte header fields are little-endian; variable-length integers are
// unsigned LEB128; strings and the image are LEB128-length-prefixed:
//
//	u32  magic    "\0gxe"
//	u32  version  1
//	leb  entryCount
//	blob image
//	entryCount × record:
//	    name              string (non-empty, unique)
//	    blockSize         3 × leb (each >= 1)
//	    sharedMemoryBytes leb
//	    flags             byte (bit0: diagnostics record follows)
//	    [diagnostics]     sourceFile string, sourceLine leb,
//	                      functionName string
//
// # Decoding
//
//	pkg, err := gexe.Decode(blob)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for i, ep := range pkg.EntryPoints {
//	    fmt.Println(i, ep.Name, ep.BlockSize, ep.SharedMemoryBytes)
//	}
//
// Decode validates structure and per-record constraints but never touches
// device state; shared-memory requirements are checked against the actual
// device limit later, by the loader.
//
// # Encoding
//
// Encode a package back to binary:
//
//	blob := pkg.Encode()
//
// Round-trip encoding preserves every field, including optional
// diagnostics.
package gexe
