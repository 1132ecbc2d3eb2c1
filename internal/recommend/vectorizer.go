// Package recommend implements TF-IDF vectorization and cosine similarity ranking
// for content-based movie recommendations.
package recommend

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// Term is one non-zero entry of a sparse row. Index points into Matrix.Vocabulary.
type Term struct {
	Index  int
	Weight float64
}

// Vector is a sparse TF-IDF row sorted by term index.
type Vector []Term

// Dot computes the dot product of two sorted sparse vectors using a merge-join.
func (v Vector) Dot(o Vector) float64 {
	var dot float64

	i, j := 0, 0
	for i < len(v) && j < len(o) {
		switch {
		case v[i].Index == o[j].Index:
			dot += v[i].Weight * o[j].Weight
			i++
			j++
		case v[i].Index < o[j].Index:
			i++
		default:
			j++
		}
	}

	return dot
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, t := range v {
		sum += t.Weight * t.Weight
	}

	return math.Sqrt(sum)
}

// Matrix is an N×V TF-IDF matrix with L2-normalised rows.
type Matrix struct {
	Vocabulary []string
	Rows       []Vector
}

// Len returns the number of rows.
func (m *Matrix) Len() int { return len(m.Rows) }

// Tokenize lowercases text and splits it into runs of at least two word
// characters (letters, digits or underscore), dropping English stopwords.
func Tokenize(text string) []string {
	var tokens []string

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isWordRune(r)
	})

	for _, f := range fields {
		if len([]rune(f)) < 2 || IsStopWord(f) {
			continue
		}

		tokens = append(tokens, f)
	}

	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Vectorize learns a vocabulary from docs and returns their TF-IDF matrix.
// Row i corresponds to docs[i]. The vocabulary is sorted, so the result is
// deterministic for a given input.
func Vectorize(docs []string) (*Matrix, error) {
	empty := true
	for _, d := range docs {
		if strings.TrimSpace(d) != "" {
			empty = false
			break
		}
	}

	if empty {
		return nil, ErrNoUsableData
	}

	if len(docs) < 2 {
		return nil, ErrInsufficientData
	}

	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)

	for i, d := range docs {
		tf := make(map[string]int)
		for _, tok := range Tokenize(d) {
			tf[tok]++
		}

		for tok := range tf {
			df[tok]++
		}

		counts[i] = tf
	}

	if len(df) == 0 {
		return nil, ErrNoUsableData
	}

	vocab := make([]string, 0, len(df))
	for tok := range df {
		vocab = append(vocab, tok)
	}

	sort.Strings(vocab)

	index := make(map[string]int, len(vocab))
	idf := make([]float64, len(vocab))
	n := float64(len(docs))

	for i, tok := range vocab {
		index[tok] = i
		idf[i] = math.Log((1+n)/(1+float64(df[tok]))) + 1
	}

	rows := make([]Vector, len(docs))
	for i, tf := range counts {
		row := make(Vector, 0, len(tf))
		for tok, c := range tf {
			j := index[tok]
			row = append(row, Term{Index: j, Weight: float64(c) * idf[j]})
		}

		sort.Slice(row, func(a, b int) bool { return row[a].Index < row[b].Index })

		if norm := row.Norm(); norm > 0 {
			for k := range row {
				row[k].Weight /= norm
			}
		}

		rows[i] = row
	}

	return &Matrix{Vocabulary: vocab, Rows: rows}, nil
}
