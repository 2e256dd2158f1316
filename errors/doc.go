// Package errors provides structured error types for the gpu-runtime library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the offending entry-point
// index, symbol name, driver error code, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLoad, errors.KindSymbolNotFound).
//		EntryPoint(3).
//		Symbol("matmul").
//		Detail("kernel not present in device module").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SymbolNotFound(3, "matmul", cause)
//	err := errors.IndexOutOfRange(7, 2)
//
// All errors implement the standard error interface and support errors.Is/As.
// Errors are terminal for the operation that raised them: the library never
// retries internally. Driver failures keep their underlying error reachable
// through Unwrap and their numeric code in the Code field, so a caller may
// decide to retry after freeing device resources.
package errors
