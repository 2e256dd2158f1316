package gexe

// Magic is the container magic number, the bytes "\0gxe" read little-endian.
const Magic uint32 = 0x65786700

// Version is the container format version this package reads and writes.
const Version uint32 = 1

// MaxEntryPoints bounds the declared record count so a corrupt header cannot
// drive allocation.
const MaxEntryPoints = 1 << 16

// Descriptor record flags.
const (
	flagDiagnostics byte = 1 << 0

	knownFlags = flagDiagnostics
)
