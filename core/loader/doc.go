// Package loader mounts the scheduler's HTTP features on the Fiber router.
//
// A feature such as comparison or integrity implements Feature and is
// registered on a Manager at startup. LoadAll mounts the enabled ones in
// registration order and stops at the first feature that fails to load.
package loader
