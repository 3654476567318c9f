package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecoverableGoNoPanic(t *testing.T) {
	req := require.New(t)

	done := make(chan struct{})
	ch := RecoverableGo(func() {
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("goroutine did not run")
	}

	ev, ok := <-ch
	req.Nil(ev)
	req.False(ok)
}

func TestRecoverableGoPanic(t *testing.T) {
	req := require.New(t)

	recovered := make(chan interface{}, 1)
	ch := RecoverableGo(func() {
		panic("boom")
	}, WithAfterRecovered(func(p interface{}, stack []byte) {
		recovered <- p
	}))

	select {
	case ev := <-ch:
		req.NotNil(ev)
		req.Equal("boom", ev.Panic)
		req.NotEmpty(ev.Stack)
	case <-time.After(time.Second):
		req.Fail("panic event not delivered")
	}

	select {
	case p := <-recovered:
		req.Equal("boom", p)
	case <-time.After(time.Second):
		req.Fail("afterRecovered not invoked")
	}
}
