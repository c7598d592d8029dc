package main

import (
	"fmt"
	"io"

	"github.com/packconv/packconv/internal/batch"
)

// consoleObserver renders per-item progress on a terminal. It receives
// notifications from the orchestrator's sequential loop, so no locking is
// needed.
type consoleObserver struct {
	w io.Writer
}

func newConsoleObserver(w io.Writer) *consoleObserver {
	return &consoleObserver{w: w}
}

func (o *consoleObserver) ItemStatusChanged(index int, status batch.Status) {
	if status == batch.StatusFailed {
		fmt.Fprintf(o.w, "item %d failed\n", index+1)
	}
}

func (o *consoleObserver) Progress(completed, total int) {
	fmt.Fprintf(o.w, "\r[%d/%d] converted", completed, total)
	if completed == total {
		fmt.Fprintln(o.w)
	}
}
