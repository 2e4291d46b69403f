// Package source resolves input URIs into arrays for the fvec command.
//
// Supported forms:
//
//	samples.npy              local file (memory-mapped)
//	file:///data/take.npy    local file
//	s3://bucket/key.npy      Amazon S3
//	minio://bucket/key.npy   MinIO or another S3-compatible service
//	mem://name.json          in-memory store (tests)
//
// A trailing .zst or .lz4 selects zstd or lz4 decompression. The remaining
// suffix selects the format: .json for nested lists of numbers, anything
// else is read as npy.
package source
