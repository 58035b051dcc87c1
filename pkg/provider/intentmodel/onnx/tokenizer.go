package onnx

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Special token strings expected in the exported vocabulary.
const (
	clsToken = "[CLS]"
	sepToken = "[SEP]"
	unkToken = "[UNK]"
	padToken = "[PAD]"
)

// tokenizer is a minimal WordPiece tokenizer, enough to feed a fine-tuned
// BERT-style classifier. It implements greedy longest-match subword splitting
// over a vocab.txt exported alongside the model. It does not implement the
// full HuggingFace normalizer stack; the correction pipeline has already
// normalized the text by the time it arrives here.
type tokenizer struct {
	vocab map[string]int64
	cls   int64
	sep   int64
	unk   int64
	pad   int64
}

// loadTokenizer reads a vocab.txt file (one token per line, line number is
// the token id) and resolves the special token ids.
func loadTokenizer(path string) (*tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("onnx: open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	sc := bufio.NewScanner(f)
	var id int64
	for sc.Scan() {
		vocab[strings.TrimRight(sc.Text(), "\r\n")] = id
		id++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("onnx: read vocab: %w", err)
	}

	t := &tokenizer{vocab: vocab}
	for _, s := range []struct {
		name string
		dst  *int64
	}{
		{clsToken, &t.cls},
		{sepToken, &t.sep},
		{unkToken, &t.unk},
		{padToken, &t.pad},
	} {
		id, ok := vocab[s.name]
		if !ok {
			return nil, fmt.Errorf("onnx: vocab missing special token %s", s.name)
		}
		*s.dst = id
	}
	return t, nil
}

// encode converts text into [CLS] tok... [SEP] token ids, truncated to
// maxLen. The second return value is the attention mask (all ones, same
// length).
func (t *tokenizer) encode(text string, maxLen int) ([]int64, []int64) {
	ids := []int64{t.cls}
	for _, word := range splitWords(text) {
		if len(ids) >= maxLen-1 {
			break
		}
		ids = append(ids, t.wordPiece(word, maxLen-1-len(ids))...)
	}
	ids = append(ids, t.sep)

	mask := make([]int64, len(ids))
	for i := range mask {
		mask[i] = 1
	}
	return ids, mask
}

// wordPiece splits one word into subword ids by greedy longest match,
// emitting at most budget ids. A word with no matchable prefix becomes a
// single [UNK].
func (t *tokenizer) wordPiece(word string, budget int) []int64 {
	if budget <= 0 {
		return nil
	}

	var out []int64
	runes := []rune(word)
	start := 0
	for start < len(runes) && len(out) < budget {
		end := len(runes)
		var matched int64 = -1
		for end > start {
			piece := string(runes[start:end])
			if start > 0 {
				piece = "##" + piece
			}
			if id, ok := t.vocab[piece]; ok {
				matched = id
				break
			}
			end--
		}
		if matched < 0 {
			return []int64{t.unk}
		}
		out = append(out, matched)
		start = end
	}
	return out
}

// splitWords performs basic pre-tokenization: lowercase, split on whitespace,
// and split punctuation into standalone tokens.
func splitWords(text string) []string {
	var (
		words []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			flush()
			words = append(words, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}
