//go:build integration

package memgraph

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/jai/internal/logging"
	"github.com/agenthands/jai/internal/store"
	"github.com/agenthands/jai/internal/store/storetest"
)

func TestMemgraph_Conformance(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	uri := os.Getenv("MEMGRAPH_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	user := os.Getenv("MEMGRAPH_USER")
	pwd := os.Getenv("MEMGRAPH_PASSWORD")

	storetest.Run(t, func(t *testing.T, now func() time.Time) store.EntryStore {
		ctx := context.Background()

		d, err := NewMemgraphDriver(ctx, uri, user, pwd, logging.Nop())
		require.NoError(t, err)
		require.NoError(t, d.BuildIndices(ctx))

		_, err = d.ExecuteQuery(ctx, `MATCH (e:Entry) WHERE e.owner_id IN ['u1', 'u2'] DETACH DELETE e`, nil)
		require.NoError(t, err)

		s := New(d, WithClock(now))
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
