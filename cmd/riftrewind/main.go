// RiftRewind - League of Legends player lookup, match stats and Q&A.
// Optimized for minimal resource usage.
package main

import (
	"runtime/debug"

	"github.com/riftrewind/internal/cli"
)

func init() {
	// Optimize garbage collector for low memory
	// GOGC=50 means GC runs more frequently, using less memory
	debug.SetGCPercent(50)

	// Limit max memory usage (soft limit)
	debug.SetMemoryLimit(128 * 1024 * 1024) // 128MB
}

func main() {
	cli.Execute()
}
