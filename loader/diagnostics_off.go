//go:build nogpudiag

package loader

import "github.com/wippyai/gpu-runtime/gexe"

// Diagnostics are stripped in this build configuration; launch parameters
// carry nil regardless of what the package declares.
func diagnosticsFor(ep *gexe.EntryPoint) *gexe.Diagnostics {
	return nil
}
