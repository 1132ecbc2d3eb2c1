package recommend

import "sort"

// DefaultLimit is used when a non-positive limit is requested.
const DefaultLimit = 5

// Ranked is one scored row of a similarity ranking.
type Ranked struct {
	Index int
	Score float64
}

// Cosine returns the cosine similarity of rows a and b. Rows are L2-normalised,
// so this is their dot product.
func (m *Matrix) Cosine(a, b int) float64 {
	return m.Rows[a].Dot(m.Rows[b])
}

// Rank scores every row other than target against it and returns at most limit
// rows ordered by descending score. Ties keep row order.
func Rank(m *Matrix, target, limit int) ([]Ranked, error) {
	if m == nil || target < 0 || target >= m.Len() {
		return nil, ErrTargetOutOfRange
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make([]Ranked, 0, m.Len()-1)
	for i := range m.Rows {
		if i == target {
			continue
		}

		ranked = append(ranked, Ranked{Index: i, Score: m.Cosine(target, i)})
	}

	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].Score > ranked[b].Score })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked, nil
}
