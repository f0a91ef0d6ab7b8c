package display

import (
	"image"
	"sync"
)

// Push is one recorded PushImage call.
type Push struct {
	ID    ID
	Frame *image.RGBA
}

// Recorder is a Driver that records every call and can fail on demand,
// in the spirit of periph's spitest record/playback devices. Tests
// inject per-panel failures and then inspect exactly what reached each
// screen. It is safe for concurrent use.
type Recorder struct {
	mu           sync.Mutex
	pushes       []Push
	backlights   map[ID][]int
	pushErr      map[ID]error
	backlightErr map[ID]error
	closed       bool
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		backlights:   make(map[ID][]int),
		pushErr:      make(map[ID]error),
		backlightErr: make(map[ID]error),
	}
}

func (r *Recorder) PushImage(id ID, frame *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.pushErr[id]; err != nil {
		return err
	}
	r.pushes = append(r.pushes, Push{ID: id, Frame: frame})
	return nil
}

func (r *Recorder) SetBacklight(id ID, percent int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.backlightErr[id]; err != nil {
		return err
	}
	r.backlights[id] = append(r.backlights[id], percent)
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// FailPush makes PushImage return err for the panel until cleared with
// a nil err. Other panels are unaffected.
func (r *Recorder) FailPush(id ID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.pushErr, id)
		return
	}
	r.pushErr[id] = err
}

// FailBacklight makes SetBacklight return err for the panel until
// cleared with a nil err.
func (r *Recorder) FailBacklight(id ID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.backlightErr, id)
		return
	}
	r.backlightErr[id] = err
}

// Pushes returns a copy of every recorded push, in order.
func (r *Recorder) Pushes() []Push {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Push, len(r.pushes))
	copy(out, r.pushes)
	return out
}

// PushesFor returns the frames pushed to one panel, in order.
func (r *Recorder) PushesFor(id ID) []*image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*image.RGBA
	for _, p := range r.pushes {
		if p.ID == id {
			out = append(out, p.Frame)
		}
	}
	return out
}

// PushCount reports how many frames were pushed to a panel.
func (r *Recorder) PushCount(id ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.pushes {
		if p.ID == id {
			n++
		}
	}
	return n
}

// TotalPushes reports the number of pushes across all panels.
func (r *Recorder) TotalPushes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pushes)
}

// Backlights returns the brightness values set on a panel, in order.
func (r *Recorder) Backlights(id ID) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.backlights[id]))
	copy(out, r.backlights[id])
	return out
}

// Closed reports whether Close has been called.
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
