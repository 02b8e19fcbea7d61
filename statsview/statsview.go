//go:build statsview

package statsview

import (
	"fmt"
	"io"
	"log"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/lixenwraith/chess-clock/core"
)

const (
	Address = "localhost:12600"
	url     = "/debug/statsview"
)

// Launch starts the stats server in its own goroutine
func Launch(output io.Writer) {
	core.Go(func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		log.Printf("statsview: serving on %s", Address)
		mgr.Start()
	})

	fmt.Fprintf(output, "stats server available at %s%s\n", Address, url)
}

// Available reports whether this build carries the stats server
func Available() bool {
	return true
}
