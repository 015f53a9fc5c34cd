// Package resource materializes the external artifacts that ResourceNodes describe.
//
// A Downloader fetches file, directory and zip resources from the local filesystem or
// over HTTP into a cache directory. Every location gets its own subdirectory named by
// the xxhash of its URI, so repeated runs reuse the same paths. Zip archives are
// extracted; entries escaping the target directory are rejected.
//
// Materialize goes through ResourceNode.EnsureDownloaded, so concurrent callers of the
// same node download it once. MaterializeAll does that for every resource of a tree.
package resource
