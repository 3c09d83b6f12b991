package audioalert

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/kestrelsim/vrtkernel/kernel"
)

// Engine plays a caution tone on a background goroutine whenever it
// receives a Critical deadline event, with an overflow-protected,
// size-1 command channel so a burst of misses degrades to "play the
// latest one" rather than piling up a backlog of stale alerts. Same
// speaker.Init/speaker.Play shape and non-blocking send-or-drop queue as
// a game audio engine's sound-effect dispatcher.
type Engine struct {
	volume float64

	queue    chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool

	played  atomic.Uint64
	dropped atomic.Uint64
}

// NewEngine creates an Engine at the given playback volume (0..1) and
// initializes the shared beep speaker at this package's sample rate.
func NewEngine(volume float64) (*Engine, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, err
	}
	return &Engine{
		volume:   volume,
		queue:    make(chan struct{}, 1),
		stopChan: make(chan struct{}),
	}, nil
}

// Subscribe registers this Engine against a kernel.DeadlineManager so
// every subsequent EventCritical triggers a tone request.
func (e *Engine) Subscribe(dm *kernel.DeadlineManager) {
	dm.Subscribe(func(ev kernel.DeadlineEvent) {
		if ev.Kind == kernel.EventCritical {
			e.requestTone()
		}
	})
}

func (e *Engine) requestTone() {
	if !e.running.Load() {
		return
	}
	select {
	case e.queue <- struct{}{}:
	default:
		e.dropped.Add(1)
	}
}

// Start begins the playback goroutine.
func (e *Engine) Start() {
	if e.running.CompareAndSwap(false, true) {
		e.wg.Add(1)
		go e.run()
	}
}

// Stop halts playback and waits for the goroutine to exit.
func (e *Engine) Stop() {
	if e.running.CompareAndSwap(true, false) {
		close(e.stopChan)
		e.wg.Wait()
	}
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.stopChan:
			return
		case <-e.queue:
			e.playOnce()
		}
	}
}

func (e *Engine) playOnce() {
	done := make(chan struct{})
	speaker.Play(beep.Seq(criticalTone(e.volume), beep.Callback(func() {
		close(done)
	})))
	select {
	case <-done:
	case <-e.stopChan:
	}
	e.played.Add(1)
}

// Stats returns the count of tones played and dropped for overflow.
func (e *Engine) Stats() (played, dropped uint64) {
	return e.played.Load(), e.dropped.Load()
}
