package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/core/model"
	"github.com/agenthands/jai/internal/store"
	"github.com/agenthands/jai/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.EntryStore {
		return New(WithClock(now))
	})
}

func TestStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New(WithIDFunc(func() string { return "fixed" }))

	e, err := s.Create(ctx, "u1", model.Fields{Content: "c", Tags: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", e.ID)

	e.Tags[0] = "mutated"
	e.Content = "mutated"

	got, err := s.Get(ctx, "fixed", "u1")
	require.NoError(t, err)
	assert.Equal(t, "c", got.Content)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestStore_ConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	s := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(ctx, "u1", model.Fields{Content: fmt.Sprintf("c%d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	_, total, err := s.Query(ctx, "u1", model.Predicate{}, model.OrderNewestFirst, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, total)
}
