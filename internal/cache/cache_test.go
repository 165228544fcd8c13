package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDo_CachesSuccess(t *testing.T) {
	c := New()
	var loads int

	for i := 0; i < 3; i++ {
		v, err := c.Do("k", func() (any, error) {
			loads++
			return "value", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}

	assert.Equal(t, 1, loads, "subsequent hits must not reload")
	assert.Equal(t, 1, c.Len())
}

// A failed load is not cached; the next call retries.
func TestDo_DoesNotCacheFailure(t *testing.T) {
	c := New()
	var loads int

	_, err := c.Do("k", func() (any, error) {
		loads++
		return nil, errors.New("upstream down")
	})
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	v, err := c.Do("k", func() (any, error) {
		loads++
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
	assert.Equal(t, 2, loads)
}

func TestDo_DistinctKeys(t *testing.T) {
	c := New()

	a, _ := c.Do("a", func() (any, error) { return 1, nil })
	b, _ := c.Do("b", func() (any, error) { return 2, nil })

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
	assert.Equal(t, 2, c.Len())
}

// Concurrent callers for one key share a single load.
func TestDo_SingleFlight(t *testing.T) {
	c := New()
	var loads atomic.Int32
	start := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			v, err := c.Do("shared", func() (any, error) {
				loads.Add(1)
				return "once", nil
			})
			assert.NoError(t, err)
			assert.Equal(t, "once", v)
		}()
	}
	close(start)
	wg.Wait()

	assert.LessOrEqual(t, loads.Load(), int32(2), "concurrent callers must coalesce their loads")
}
