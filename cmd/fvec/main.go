// Command fvec computes statistics over multi-channel sample arrays.
//
// Inputs are URIs: plain paths and file:// name local files, s3:// and
// minio:// name objects as bucket/key. A .zst or .lz4 suffix selects
// decompression; the remaining suffix selects .npy (default) or .json.
//
// Usage:
//
//	fvec alpha-norm --alpha 2 take1.npy s3://bucket/take2.npy.zst
//	fvec inspect take1.npy
//	fvec --config fvec.yaml --log-level debug alpha-norm take1.json
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
