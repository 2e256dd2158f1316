//go:build !nogpudiag

package loader

import "github.com/wippyai/gpu-runtime/gexe"

// diagnosticsFor forwards the descriptor's source metadata into the
// launch-parameter table. Build with -tags nogpudiag to strip it.
func diagnosticsFor(ep *gexe.EntryPoint) *gexe.Diagnostics {
	return ep.Diagnostics
}
