package intentmodel_test

import (
	"testing"

	"github.com/dhvani-ai/dhvani/pkg/provider/intentmodel"
)

func TestParseLabelMap(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"id2label": {"0": "time", "1": "date", "2": "hello", "3": "stop"}}`)
	labels, err := intentmodel.ParseLabelMap(raw)
	if err != nil {
		t.Fatalf("ParseLabelMap: %v", err)
	}
	want := []string{"time", "date", "hello", "stop"}
	if len(labels) != len(want) {
		t.Fatalf("got %d labels, want %d", len(labels), len(want))
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestParseLabelMap_Errors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"empty map", `{"id2label": {}}`},
		{"gap in indices", `{"id2label": {"0": "time", "2": "date"}}`},
		{"non-numeric id", `{"id2label": {"zero": "time"}}`},
		{"invalid json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := intentmodel.ParseLabelMap([]byte(tc.raw)); err == nil {
				t.Error("ParseLabelMap succeeded, want error")
			}
		})
	}
}

func TestSortScores(t *testing.T) {
	t.Parallel()

	scores := []intentmodel.LabelScore{
		{Label: "time", Score: 0.1},
		{Label: "stop", Score: 0.7},
		{Label: "date", Score: 0.1},
		{Label: "hello", Score: 0.1},
	}
	intentmodel.SortScores(scores)
	if scores[0].Label != "stop" {
		t.Errorf("top label = %q, want stop", scores[0].Label)
	}
	// Ties order by label for determinism.
	if scores[1].Label != "date" || scores[2].Label != "hello" || scores[3].Label != "time" {
		t.Errorf("tied labels out of order: %v", scores[1:])
	}
}
