package core

import (
	"sync"
	"testing"
)

func TestGo_RecoversAndForwards(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(1)

	var got any
	SetCrashHandler(func(r any) {
		got = r
		wg.Done()
	})
	defer SetCrashHandler(nil)

	Go(func() {
		panic("boom")
	})

	wg.Wait()
	if got != "boom" {
		t.Errorf("handler received %v, want boom", got)
	}
}

func TestHandleCrash_NilIsNoop(t *testing.T) {
	called := false
	SetCrashHandler(func(any) { called = true })
	defer SetCrashHandler(nil)

	HandleCrash(nil)
	if called {
		t.Error("handler must not run for nil recover value")
	}
}
