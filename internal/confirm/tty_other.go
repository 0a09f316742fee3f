//go:build !aix && !linux && !solaris && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !windows

package confirm

import "os"

// IsTerminal reports false where terminal detection is unavailable, so
// prompts are never read from a pipe.
func IsTerminal(f *os.File) bool {
	return false
}
