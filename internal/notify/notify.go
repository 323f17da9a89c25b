// Package notify delivers user-facing notices: to the log and a writer for
// the headless commands, or to a channel the terminal UI turns into toasts.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"tipjar/internal/domain"
)

// Writer prints notices as single lines and mirrors them to the log.
type Writer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewWriter(out io.Writer) *Writer { return &Writer{out: out} }

func (w *Writer) Notify(n domain.Notice) {
	ev := log.Info()
	if n.Level == domain.LevelError {
		ev = log.Warn()
	}
	ev.Str("notice", string(n.Kind)).Msg(n.Message)

	if w.out == nil {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = fmt.Fprintf(w.out, "[%s] %s\n", n.Level, n.Message)
}

// Channel buffers notices for a single consumer. When the buffer is full
// the notice is dropped rather than blocking the sender.
type Channel struct {
	ch chan domain.Notice
}

func NewChannel(size int) *Channel { return &Channel{ch: make(chan domain.Notice, size)} }

func (c *Channel) Notify(n domain.Notice) {
	select {
	case c.ch <- n:
	default:
		log.Warn().Str("notice", string(n.Kind)).Msg("notice dropped, consumer too slow")
	}
}

// C is the receive side.
func (c *Channel) C() <-chan domain.Notice { return c.ch }

// Fanout forwards every notice to each notifier in order.
type Fanout []domain.Notifier

func (f Fanout) Notify(n domain.Notice) {
	for _, x := range f {
		if x != nil {
			x.Notify(n)
		}
	}
}

// Recorder keeps every notice; useful in tests and for summaries.
type Recorder struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (r *Recorder) Notify(n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []domain.Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notice(nil), r.notices...)
}

// Kinds lists the recorded notice kinds in order.
func (r *Recorder) Kinds() []domain.NoticeKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.NoticeKind, 0, len(r.notices))
	for _, n := range r.notices {
		out = append(out, n.Kind)
	}
	return out
}

var (
	_ domain.Notifier = (*Writer)(nil)
	_ domain.Notifier = (*Channel)(nil)
	_ domain.Notifier = Fanout(nil)
	_ domain.Notifier = (*Recorder)(nil)
)
