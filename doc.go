// Package fvec adapts externally supplied numeric arrays into canonical
// multi-channel float32 vectors and evaluates the alpha normalisation
// statistic on them.
//
// # Quick Start
//
//	arr, _ := ndarray.New([]float32{1, 2, 3, 4})
//	norm, _ := fvec.AlphaNorm(arr, 2) // sqrt(7.5)
//
// Arrays loaded from NumPy files work the same way:
//
//	f, _ := npy.Open("samples.npy")
//	defer f.Close()
//	norm, _ := fvec.AlphaNorm(f, 2)
//
// # Vectors
//
// A Vector holds channels buffers of exactly length float32 samples. It is
// either Owning (created by Allocate or Clone) or Borrowing (created by the
// adapter, aliasing the rows of an Array). Borrowing vectors are read-only;
// call Clone for a mutable copy.
//
// Every vector must be released with Release once it is no longer used.
// Releasing a borrowing vector never touches the aliased data; it drops the
// row table, returns the budget of a cast temporary and releases sources
// implementing Retainer (such as memory-mapped files).
//
// # Adaptation
//
// Adapt accepts a *Vector (returned unchanged) or any Array:
//
//	shape (N)    -> 1 channel of length N
//	shape (C, N) -> C channels of length N
//
// Float32 arrays are aliased without copying. Float16 and float64 arrays are
// cast to a float32 temporary first. Scalars, arrays with more than two
// dimensions, empty arrays and non-float element types are rejected.
//
// # Resources
//
// Owning allocations and cast temporaries are reserved against a
// resource.Controller configured with WithResources:
//
//	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20})
//	a := fvec.NewAdapter(fvec.WithResources(rc))
//
// A reservation that does not fit fails with ErrAllocation and leaves the
// controller's usage unchanged.
//
// # Errors
//
// Errors returned by this package match exactly one of ErrType, ErrShape,
// ErrConversion, ErrIndex or ErrAllocation via errors.Is, and KindOf maps
// them to a stable kind name.
//
// # Observability
//
// WithLogger enables structured logging through log/slog and
// WithMetricsCollector receives one event per adaptation and per statistic
// invocation. BasicMetricsCollector keeps simple in-memory counters.
package fvec
