package render

// Progress observes sampling. Advance receives the number of pixels
// completed since the previous call. Implementations must be safe for
// concurrent use; they never influence the rendered output.
type Progress interface {
	Start(total int)
	Advance(n int)
	Finish()
}

// NopProgress ignores all notifications.
type NopProgress struct{}

func (NopProgress) Start(int)   {}
func (NopProgress) Advance(int) {}
func (NopProgress) Finish()     {}

// ProgressFunc adapts a function to Progress; Start and Finish are no-ops.
type ProgressFunc func(n int)

func (f ProgressFunc) Start(int)     {}
func (f ProgressFunc) Advance(n int) { f(n) }
func (f ProgressFunc) Finish()       {}
