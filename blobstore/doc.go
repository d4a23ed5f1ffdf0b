// Package blobstore provides storage abstraction for persisted artifacts.
//
// An artifact is written once and read back whole. The BlobStore interface
// covers the small surface this needs:
//
//	Open(ctx, name) (Blob, error)            // Read access
//	Create(ctx, name) (WritableBlob, error)  // Streaming write
//	Put(ctx, name, data) error               // Atomic write
//	Delete(ctx, name) error
//	List(ctx, prefix) ([]string, error)
//
// Built-in backends:
//
//   - LocalStore: files on disk, mmap-backed reads, atomic rename on write
//   - MemoryStore: in-memory, for tests
//   - s3.Store: AWS S3 via aws-sdk-go-v2
//   - minio.Store: MinIO and other S3-compatible object stores
//
// Blobs that expose their backing memory directly implement Mappable.
package blobstore
