//go:build !cimage_debug

package bridge

const debugBuild = false
