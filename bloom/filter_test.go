package bloom_test

import (
	"fmt"
	"testing"

	"github.com/storelens/storelens/bloom"
	"github.com/stretchr/testify/assert"
)

func TestFilter_AddAndTest(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.Test("https://shop.example.com/products/alpha"))

	f.Add("https://shop.example.com/products/alpha")

	assert.True(t, f.Test("https://shop.example.com/products/alpha"))
	assert.False(t, f.Test("https://shop.example.com/products/beta"))
}

func TestFilter_TestAndAdd(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	url := "https://shop.example.com/products/alpha"

	assert.False(t, f.TestAndAdd(url))
	assert.True(t, f.TestAndAdd(url))
	assert.True(t, f.Test(url))
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add("https://shop.example.com/products/alpha")
	f.Add("https://shop.example.com/products/beta")
	f.Add("https://shop.example.com/products/gamma")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("https://shop.example.com/products/added-%d", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.Test(fmt.Sprintf("https://shop.example.com/products/notadded-%d", i)) {
			falsePositives++
		}
	}

	// Allow 3x headroom over the configured rate to keep the test stable.
	assert.Less(t, falsePositives, int(3*fpRate*testProbes))
}
