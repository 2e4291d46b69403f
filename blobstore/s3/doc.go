// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("recordings/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	blob, err := store.Open(ctx, "take1.npy")
//
// A store created with an empty bucket takes the bucket from the first
// element of each name ("my-bucket/take1.npy"), which is how the s3://
// input scheme is served.
//
// # Features
//
//   - HeadObject for existence and size, ranged GetObject for reads
//   - Configurable prefix and custom endpoints (path-style addressing)
//   - Narrow Client interface for testing without AWS
package s3
