// Package mock provides a scripted test double for the
// intentmodel.Classifier interface.
package mock

import (
	"context"
	"sync"

	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
)

// Classifier returns a fixed distribution per input text, with a default for
// unknown inputs.
type Classifier struct {
	mu sync.Mutex

	// ByText maps exact input text to the distribution to return.
	ByText map[string][]intentmodel.LabelScore

	// Default is returned for inputs missing from ByText.
	Default []intentmodel.LabelScore

	// Err, if non-nil, is returned by every Classify call.
	Err error

	// Inputs records all Classify invocations in order.
	Inputs []string

	// CloseCalls counts Close invocations.
	CloseCalls int
}

var _ intentmodel.Classifier = (*Classifier)(nil)

// Classify records the input and returns the configured distribution.
func (c *Classifier) Classify(ctx context.Context, text string) ([]intentmodel.LabelScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Inputs = append(c.Inputs, text)
	if c.Err != nil {
		return nil, c.Err
	}
	if scores, ok := c.ByText[text]; ok {
		return scores, nil
	}
	return c.Default, nil
}

// Close counts the call.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CloseCalls++
	return nil
}
