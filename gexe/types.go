package gexe

// Diagnostics carries optional trace-only source metadata for an entry
// point. Present only when the upstream compiler was asked to emit it;
// absence has no behavioral effect.
type Diagnostics struct {
	SourceFile   string
	FunctionName string
	SourceLine   uint32
}

// EntryPoint describes one named kernel within a package. Immutable after
// decode.
type EntryPoint struct {
	// Name uniquely identifies the kernel within the package. Never empty.
	Name string

	// Diagnostics is nil unless the package carries source metadata.
	Diagnostics *Diagnostics

	// BlockSize is the launch geometry per invocation group. Every
	// component is at least 1.
	BlockSize [3]uint32

	// SharedMemoryBytes is the kernel's shared-memory requirement. May be 0.
	SharedMemoryBytes uint32
}

// Package is a decoded executable package: the device-code image plus the
// ordered entry-point descriptors. The descriptor order defines the
// entry-point indices used by the loader and dispatch layers.
type Package struct {
	Image       []byte
	EntryPoints []EntryPoint
}
