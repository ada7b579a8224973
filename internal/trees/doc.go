// Package trees maps tree names onto the viral_usher_trees directory
// layout. It enumerates tree directories under the trees root and
// constructs the expected artifact paths for a tree, so that every
// other package agrees on where files live.
//
// All state is derived from the filesystem: a tree's pipeline status is
// whatever its artifacts say it is, and the only invariant this package
// enforces is existence.
package trees
