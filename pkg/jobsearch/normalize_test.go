package jobsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupKey_StripsSuffixesAndSeniority(t *testing.T) {
	assert.Equal(t, "acme|backend engineer", DedupKey("Acme Corp", "Senior Backend Engineer"))
	assert.Equal(t, "acme|backend engineer", DedupKey("ACME, Inc.", "Backend Engineer II"))
}

func TestDedupKey_TheAndCompanySuffix(t *testing.T) {
	assert.Equal(t, DedupKey("The Widget Company", "Engineer"), DedupKey("Widget", "Engineer"))
}
