package mapreduce

import (
	"fmt"
	"sort"

	"github.com/dtnitsch/qgc-crawler/pkg/analytics"
)

// Map generates a word frequency map for a single page.
func Map(content string, a *analytics.Analytics) map[string]int {
	return a.WordFrequency(content)
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// Pages maps every page and reduces the counts into one map.
func Pages(pages []string, a *analytics.Analytics) map[string]int {
	intermediate := make([]map[string]int, 0, len(pages))
	for _, p := range pages {
		intermediate = append(intermediate, Map(p, a))
	}
	return Reduce(intermediate)
}

// TopKeywords returns the n most frequent words formatted as "word:count",
// ties broken alphabetically.
func TopKeywords(wordCounts map[string]int, n int) []string {
	type kv struct {
		Key   string
		Value int
	}

	ss := make([]kv, 0, len(wordCounts))
	for k, v := range wordCounts {
		ss = append(ss, kv{k, v})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	limit := min(n, len(ss))
	keywords := make([]string, limit)
	for i := 0; i < limit; i++ {
		keywords[i] = fmt.Sprintf("%s:%d", ss[i].Key, ss[i].Value)
	}
	return keywords
}
