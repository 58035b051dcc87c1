// Package mock provides a scripted test double for the asr.Transcriber
// interface.
package mock

import (
	"context"
	"sync"

	"github.com/dhvani-ai/dhvani/pkg/provider/asr"
)

// Transcriber replays scripted Results in order, recording every Request it
// receives. Once the script is exhausted the last Result repeats.
type Transcriber struct {
	mu sync.Mutex

	// Results is the scripted result sequence.
	Results []asr.Result

	// Err, if non-nil, is returned by every Transcribe call.
	Err error

	// Requests records all Transcribe invocations in order.
	Requests []asr.Request

	// CloseCalls counts Close invocations.
	CloseCalls int

	pos int
}

var _ asr.Transcriber = (*Transcriber)(nil)

// Transcribe records the request and returns the next scripted result.
func (t *Transcriber) Transcribe(ctx context.Context, req asr.Request) (asr.Result, error) {
	if err := ctx.Err(); err != nil {
		return asr.Result{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Requests = append(t.Requests, req)
	if t.Err != nil {
		return asr.Result{}, t.Err
	}
	if len(t.Results) == 0 {
		return asr.Result{}, nil
	}
	res := t.Results[min(t.pos, len(t.Results)-1)]
	t.pos++
	return res, nil
}

// Close counts the call.
func (t *Transcriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.CloseCalls++
	return nil
}
