//go:build cimage_debug

package bridge

// debugBuild enables the misuse ledger and stderr logging for Default.
const debugBuild = true
