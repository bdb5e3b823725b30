//go:build !gitdirty

package buildinfo

// DirtyTrackingEnabled reports whether dirty file reporting was enabled at build time.
const DirtyTrackingEnabled = false
