package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClient_DisabledIsAlwaysEmpty(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Client{
		"nil client": nil,
		"empty addr": New("", "", 0),
	} {
		t.Run(name, func(t *testing.T) {
			assert.False(t, c.Enabled())
			assert.NoError(t, c.Ping(ctx))
			assert.NoError(t, c.Set(ctx, "item:1", []byte("x"), time.Minute))

			got, err := c.Get(ctx, "item:1")
			assert.NoError(t, err)
			assert.Nil(t, got)
			assert.False(t, c.Exists(ctx, "item:1"))
			assert.NoError(t, c.Delete(ctx, "item:1"))
			assert.NoError(t, c.Close())
		})
	}
}

func TestClient_UnreachableServerFailsSafe(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Nothing listens on port 1.
	c := New("127.0.0.1:1", "", 0)
	defer c.Close()

	assert.True(t, c.Enabled())
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, c.Exists(ctx, "k"))
}
