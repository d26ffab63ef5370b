// Package fx implements the numeric kernels behind the filter tools.
//
// Every kernel is a single synchronous pipeline: it takes a decoded
// image.Image plus a validated options struct and returns a new image. Kernels
// never touch the filesystem (the one exception is Downsize, which must
// measure encoded byte sizes and honor the copy-through policy).
//
// Options structs carry a Validate method; callers are expected to validate
// before loading any image so bad parameters fail fast without touching the
// filesystem.
//
// Intermediate buffers are plain Go values with single-producer single-consumer
// flow between pipeline stages; nothing is shared across invocations.
package fx
