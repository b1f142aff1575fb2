package mapreduce

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtnitsch/qgc-crawler/pkg/analytics"
)

func TestPagesAndTopKeywords(t *testing.T) {
	a := &analytics.Analytics{}
	pages := []string{
		"Credor Banco Alfa, credor Banco Alfa",
		"credor Beta LTDA 123, Banco Gama",
	}

	counts := Pages(pages, a)
	assert.Equal(t, 3, counts["banco"])
	assert.Equal(t, 2, counts["alfa"])
	assert.NotContains(t, counts, "credor")
	assert.NotContains(t, counts, "123")

	assert.Equal(t, []string{"banco:3", "alfa:2", "beta:1", "gama:1"}, TopKeywords(counts, 10))
	assert.Equal(t, []string{"banco:3"}, TopKeywords(counts, 1))
}

func TestReduce(t *testing.T) {
	got := Reduce([]map[string]int{{"a": 1, "b": 2}, {"b": 3}, nil})
	assert.Equal(t, map[string]int{"a": 1, "b": 5}, got)
}
