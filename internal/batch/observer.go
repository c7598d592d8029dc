package batch

// Observer receives notifications from the orchestrator after each item
// completes a state change. Calls arrive from the orchestrator's own
// sequential loop, never concurrently.
type Observer interface {
	// ItemStatusChanged fires on every item transition.
	ItemStatusChanged(index int, status Status)

	// Progress fires after each item reaches a terminal state.
	Progress(completed, total int)
}

// NopObserver ignores all notifications.
type NopObserver struct{}

func (NopObserver) ItemStatusChanged(int, Status) {}
func (NopObserver) Progress(int, int)             {}

// MultiObserver fans notifications out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) ItemStatusChanged(index int, status Status) {
	for _, o := range m {
		o.ItemStatusChanged(index, status)
	}
}

func (m MultiObserver) Progress(completed, total int) {
	for _, o := range m {
		o.Progress(completed, total)
	}
}
