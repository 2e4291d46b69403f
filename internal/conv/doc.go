// Package conv provides overflow-checked size arithmetic.
//
// Use cases:
//   - Validating untrusted sizes from array headers (shape, header length)
//   - Computing buffer sizes for allocation budgets
//
// For conversions that are provably safe by domain constraints (e.g., loop
// indices, bounded counters), use direct type casts instead to avoid overhead.
package conv
