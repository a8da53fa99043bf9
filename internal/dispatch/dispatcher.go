package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"voicehub/internal/actions"
	"voicehub/internal/calls"
)

// Job is the unit of work handed to every channel after a call is analyzed
// and redacted. Channels read it; nothing mutates it.
type Job struct {
	Call         calls.CallRecord
	ClientID     string
	BusinessName string
	Actions      []actions.Action
}

// Channel is one downstream integration. Deliver errors are logged with the
// channel identity and never propagate to sibling channels or the caller.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, job Job) error
}

// Result is one channel's outcome, gathered for logging.
type Result struct {
	Channel string
	Err     error
}

// Dispatcher fans a job out to every channel concurrently and joins before
// returning, so the HTTP handler can finish the response knowing all side
// effects ran. Channel independence is the core property: one slow or failing
// channel must not delay, cancel or corrupt another.
type Dispatcher struct {
	channels []Channel
	timeout  time.Duration
	log      *slog.Logger
}

func New(log *slog.Logger, timeout time.Duration, channels ...Channel) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{channels: channels, timeout: timeout, log: log}
}

// Dispatch runs all channels and blocks until every one finishes or times
// out. There is no shared cancellation: each channel gets its own deadline
// derived from ctx, so a sibling's failure cannot cancel the rest.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) []Result {
	results := make([]Result, len(d.channels))

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func(i int, ch Channel) {
			defer wg.Done()
			results[i] = Result{Channel: ch.Name(), Err: d.deliverOne(ctx, ch, job)}
		}(i, ch)
	}
	wg.Wait()

	for _, res := range results {
		if res.Err != nil {
			d.log.Error("fan-out channel failed",
				"channel", res.Channel,
				"call_id", job.Call.ProviderCallID,
				"err", res.Err)
		}
	}
	return results
}

func (d *Dispatcher) deliverOne(ctx context.Context, ch Channel, job Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("channel panic: %v", p)
		}
	}()

	chCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return ch.Deliver(chCtx, job)
}
