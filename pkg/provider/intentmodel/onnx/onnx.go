// Package onnx implements intentmodel.Classifier on an exported BERT-style
// sequence-classification model via ONNX Runtime. The onnxruntime shared
// library must be present at run time; its location can be overridden with
// WithLibraryPath.
package onnx

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
)

const defaultMaxSeqLen = 64

// Compile-time assertion that Classifier satisfies intentmodel.Classifier.
var _ intentmodel.Classifier = (*Classifier)(nil)

// Classifier runs intent classification through an ONNX Runtime session.
// The model must take int64 "input_ids" and "attention_mask" tensors of
// shape [1, seq] and produce a float32 "logits" tensor of shape
// [1, len(labels)].
type Classifier struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
	tok     *tokenizer
	labels  []string
	maxLen  int
	closed  bool
}

// Option is a functional option for configuring a Classifier.
type Option func(*settings)

type settings struct {
	libraryPath string
	maxLen      int
}

// WithLibraryPath sets the path of the onnxruntime shared library before the
// environment is initialized. Without it the platform default lookup applies.
func WithLibraryPath(path string) Option {
	return func(s *settings) { s.libraryPath = path }
}

// WithMaxSequenceLength caps tokenized input length. Defaults to 64, which
// comfortably covers voice commands.
func WithMaxSequenceLength(n int) Option {
	return func(s *settings) { s.maxLen = n }
}

// New loads the model, vocabulary, and label map, and prepares an inference
// session. The caller must call Close when done.
func New(modelPath, vocabPath, labelMapPath string, opts ...Option) (*Classifier, error) {
	cfg := settings{maxLen: defaultMaxSeqLen}
	for _, o := range opts {
		o(&cfg)
	}

	labels, err := intentmodel.LoadLabelMap(labelMapPath)
	if err != nil {
		return nil, err
	}
	tok, err := loadTokenizer(vocabPath)
	if err != nil {
		return nil, err
	}

	if cfg.libraryPath != "" {
		ort.SetSharedLibraryPath(cfg.libraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		// A second classifier in the same process hits this; it is not fatal.
		if err.Error() != "the ONNX runtime is already initialized" {
			return nil, fmt.Errorf("onnx: initialize runtime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input_ids", "attention_mask"},
		[]string{"logits"},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: create session: %w", err)
	}

	return &Classifier{
		session: session,
		tok:     tok,
		labels:  labels,
		maxLen:  cfg.maxLen,
	}, nil
}

// Labels returns the class labels in model index order.
func (c *Classifier) Labels() []string { return c.labels }

// Classify tokenizes text, runs inference, and returns the softmax
// distribution sorted by descending score.
//
// The session holds mutable native state, so calls are serialized with a
// mutex; turn cadence makes contention a non-issue.
func (c *Classifier) Classify(ctx context.Context, text string) ([]intentmodel.LabelScore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, errors.New("onnx: classifier is closed")
	}

	ids, mask := c.tok.encode(text, c.maxLen)
	seq := int64(len(ids))

	inputIDs, err := ort.NewTensor(ort.NewShape(1, seq), ids)
	if err != nil {
		return nil, fmt.Errorf("onnx: create input_ids tensor: %w", err)
	}
	defer inputIDs.Destroy()

	attention, err := ort.NewTensor(ort.NewShape(1, seq), mask)
	if err != nil {
		return nil, fmt.Errorf("onnx: create attention_mask tensor: %w", err)
	}
	defer attention.Destroy()

	logitsData := make([]float32, len(c.labels))
	logits, err := ort.NewTensor(ort.NewShape(1, int64(len(c.labels))), logitsData)
	if err != nil {
		return nil, fmt.Errorf("onnx: create logits tensor: %w", err)
	}
	defer logits.Destroy()

	if err := c.session.Run([]ort.Value{inputIDs, attention}, []ort.Value{logits}); err != nil {
		return nil, fmt.Errorf("onnx: run inference: %w", err)
	}

	probs := softmax(logits.GetData())
	scores := make([]intentmodel.LabelScore, len(c.labels))
	for i, label := range c.labels {
		scores[i] = intentmodel.LabelScore{Label: label, Score: probs[i]}
	}
	intentmodel.SortScores(scores)
	return scores, nil
}

// Close destroys the inference session. Safe to call more than once.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.session.Destroy()
}

// softmax converts logits to probabilities, shifting by the max logit for
// numeric stability.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}
	maxLogit := logits[0]
	for _, l := range logits[1:] {
		if l > maxLogit {
			maxLogit = l
		}
	}
	exps := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		exps[i] = math.Exp(float64(l - maxLogit))
		sum += exps[i]
	}
	for i := range exps {
		exps[i] /= sum
	}
	return exps
}
