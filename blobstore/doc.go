// Package blobstore abstracts where sample files are read from.
//
// A Store opens named, immutable blobs. Blobs are read with context-aware
// ranged reads, so remote backends fetch only what is asked for and every
// read can be cancelled.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, memory-mapped (implements Mappable)
//   - MemoryStore: in-memory blobs for tests and mem:// inputs
//   - s3.Store: Amazon S3 via HeadObject and ranged GetObject
//   - minio.Store: MinIO and other S3-compatible services
//
// # Reading
//
// ReadAll returns the full contents of a blob, without copying for Mappable
// blobs. NewReader adapts a Blob to io.Reader for streaming decoders such as
// decompressors:
//
//	blob, err := store.Open(ctx, "samples.npy.zst")
//	if err != nil { ... }
//	defer blob.Close()
//
//	r := blobstore.NewReader(ctx, blob)
package blobstore
