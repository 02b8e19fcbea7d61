//go:build !statsview

package statsview

import (
	"fmt"
	"io"
)

// Launch reports that the stats server is not compiled in
func Launch(output io.Writer) {
	fmt.Fprintln(output, "statsview not available in this build (use -tags statsview)")
}

// Available reports whether this build carries the stats server
func Available() bool {
	return false
}
