package actionset

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/actionreg/pkg/errors"
)

func TestManagerGetOrCreateIsIdempotent(t *testing.T) {
	m := NewManager()

	first, err := m.GetOrCreate("ctx")
	require.NoError(t, err)
	second, err := m.GetOrCreate("ctx")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "ctx", first.RootID())
	assert.Equal(t, []string{"ctx"}, m.Roots())
}

func TestManagerGetDoesNotCreate(t *testing.T) {
	m := NewManager()

	_, err := m.Get("ctx")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
	assert.Empty(t, m.Roots())
}

func TestManagerRejectsBadRoot(t *testing.T) {
	m := NewManager()

	for _, root := range []string{"", "a/b"} {
		_, err := m.GetOrCreate(root)
		assert.True(t, errors.IsErrorCode(err, errors.ErrMalformedPath), "root %q: %v", root, err)
	}
}

func TestManagerConcurrentCreation(t *testing.T) {
	m := NewManager()
	const goroutines = 20

	sets := make([]*ActionSet, goroutines)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(i int) {
			defer wg.Done()
			sets[i], _ = m.GetOrCreate("menubar")
		}(i)
	}
	wg.Wait()

	for _, s := range sets {
		assert.Same(t, sets[0], s)
	}
}
