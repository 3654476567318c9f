package keylock

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyLockSerializesSameKey(t *testing.T) {
	req := require.New(t)

	kl := New(16)
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kl.Lock("auction-1")
			defer kl.Unlock("auction-1")
			counter++
		}()
	}
	wg.Wait()

	req.Equal(100, counter)
}

func TestKeyLockStableShard(t *testing.T) {
	req := require.New(t)

	kl := New(8)
	req.Same(kl.shard("a"), kl.shard("a"))
}
