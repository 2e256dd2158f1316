package gexe

import "github.com/wippyai/gpu-runtime/gexe/internal/binary"

// Encode serializes the package to the container format. The result
// round-trips through Decode when the package is well formed; Encode itself
// performs no validation, which lets tests and tooling produce deliberately
// malformed containers.
func (p *Package) Encode() []byte {
	w := binary.NewWriter()

	w.WriteU32LE(Magic)
	w.WriteU32LE(Version)
	w.WriteU32(uint32(len(p.EntryPoints)))
	w.WriteBlob(p.Image)

	for _, ep := range p.EntryPoints {
		w.WriteName(ep.Name)
		for _, v := range ep.BlockSize {
			w.WriteU32(v)
		}
		w.WriteU32(ep.SharedMemoryBytes)

		var flags byte
		if ep.Diagnostics != nil {
			flags |= flagDiagnostics
		}
		w.Byte(flags)

		if ep.Diagnostics != nil {
			w.WriteName(ep.Diagnostics.SourceFile)
			w.WriteU32(ep.Diagnostics.SourceLine)
			w.WriteName(ep.Diagnostics.FunctionName)
		}
	}

	return w.Bytes()
}
