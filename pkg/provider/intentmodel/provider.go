// Package intentmodel defines the Classifier interface for trained
// intent-classification backends.
//
// A Classifier maps corrected transcript text to a probability distribution
// over a closed label set. It is only one stage of intent resolution: the
// resolver layers keyword guardrails and fuzzy fallbacks around it, so a
// backend does not need to be right about everything, just calibrated enough
// for confidence gating.
package intentmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// LabelScore is one entry of a classification distribution.
type LabelScore struct {
	Label string
	Score float64
}

// Classifier is the abstraction over a trained intent model.
//
// Classify returns the full distribution sorted by descending score. The
// scores sum to 1 for softmax-based backends. Implementations must be safe
// for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, text string) ([]LabelScore, error)
	Close() error
}

// LoadLabelMap reads a label map JSON file of the form produced at model
// export time:
//
//	{"id2label": {"0": "time", "1": "date", ...}}
//
// and returns the labels ordered by class index.
func LoadLabelMap(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("intentmodel: read label map: %w", err)
	}
	return ParseLabelMap(raw)
}

// ParseLabelMap parses label map JSON. See LoadLabelMap for the format.
func ParseLabelMap(raw []byte) ([]string, error) {
	var doc struct {
		ID2Label map[string]string `json:"id2label"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("intentmodel: parse label map: %w", err)
	}
	if len(doc.ID2Label) == 0 {
		return nil, fmt.Errorf("intentmodel: label map has no id2label entries")
	}

	labels := make([]string, len(doc.ID2Label))
	for id, label := range doc.ID2Label {
		idx, err := strconv.Atoi(id)
		if err != nil || idx < 0 || idx >= len(labels) {
			return nil, fmt.Errorf("intentmodel: label map id %q out of range", id)
		}
		labels[idx] = label
	}
	for i, l := range labels {
		if l == "" {
			return nil, fmt.Errorf("intentmodel: label map missing class index %d", i)
		}
	}
	return labels, nil
}

// SortScores orders a distribution by descending score in place, breaking
// ties by label so results are deterministic.
func SortScores(scores []LabelScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Label < scores[j].Label
	})
}
