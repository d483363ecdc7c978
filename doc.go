// Package liquids3 provides an S3-backed object storage driver built on
// AWS SDK v2. Every stored object is uploaded with public-read access, and
// each driver instance is bound to a single bucket so callers address objects
// by key alone.
//
// A flat keyspace is presented as a pseudo-directory tree: keys containing
// slashes act as nested paths, zero-byte marker objects stand in for empty
// directories, and listings project each stored key onto its immediate child
// segment under the requested prefix.
//
// Key features:
//   - Single-bucket handle with resolvable public URLs per object
//   - Virtual-hosted URL derivation with custom endpoint override
//   - Pseudo-directory creation and shallow listings over flat keys
//   - Server-side copy and copy-then-delete move
//   - Comprehensive error handling with context
//   - Optional structured logging and Prometheus metrics
//
// Example usage:
//
//	storage, err := liquids3.New(
//	    liquids3.WithBucket("my-bucket"),
//	    liquids3.WithRegion("us-west-1"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	// Upload a document and resolve its public URL
//	url, err := storage.Upload(ctx, "docs/readme.txt", []byte("hello"))
//	if err != nil {
//	    return err
//	}
package liquids3
