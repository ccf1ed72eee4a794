package store

import (
	"sync"
	"testing"
)

type counter struct{ N int }

type incr struct{ By int }
type reset struct{}

func reduceCounter(prev counter, a Action) counter {
	switch a := a.(type) {
	case incr:
		return counter{N: prev.N + a.By}
	case reset:
		return counter{}
	}
	return prev
}

func TestDispatch(t *testing.T) {
	s := New(counter{}, reduceCounter)
	s.Dispatch(incr{By: 2})
	got := s.Dispatch(incr{By: 3})
	if got.N != 5 {
		t.Errorf("Dispatch = %d, want 5", got.N)
	}
	if s.State().N != 5 {
		t.Errorf("State = %d, want 5", s.State().N)
	}
	if s.Dispatch("unknown").N != 5 {
		t.Error("unknown action must leave state unchanged")
	}
	if s.Dispatch(reset{}).N != 0 {
		t.Error("reset should zero the counter")
	}
}

func TestSubscribe(t *testing.T) {
	s := New(counter{}, reduceCounter)
	var seen []int
	unsubscribe := s.Subscribe(func(st counter, _ Action) {
		seen = append(seen, st.N)
	})
	s.Dispatch(incr{By: 1})
	s.Dispatch(incr{By: 1})
	unsubscribe()
	s.Dispatch(incr{By: 1})
	if len(seen) != 2 || seen[0] != 1 || seen[1] != 2 {
		t.Errorf("seen = %v, want [1 2]", seen)
	}
}

func TestListenerMayReadState(t *testing.T) {
	s := New(counter{}, reduceCounter)
	s.Subscribe(func(_ counter, _ Action) {
		_ = s.State()
	})
	s.Dispatch(incr{By: 1})
}

func TestConcurrentDispatch(t *testing.T) {
	s := New(counter{}, reduceCounter)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Dispatch(incr{By: 1})
		}()
	}
	wg.Wait()
	if s.State().N != 50 {
		t.Errorf("State = %d, want 50", s.State().N)
	}
}

func TestSubscribe_NotifiesInOrder(t *testing.T) {
	s := New(counter{}, reduceCounter)
	var got []int
	unsubs := make([]func(), 5)
	for i := range unsubs {
		i := i
		unsubs[i] = s.Subscribe(func(counter, Action) { got = append(got, i) })
	}
	unsubs[2]()

	for n := 0; n < 20; n++ {
		got = got[:0]
		s.Dispatch(incr{By: 1})
		if len(got) != 4 || got[0] != 0 || got[1] != 1 || got[2] != 3 || got[3] != 4 {
			t.Fatalf("dispatch %d notified %v, want [0 1 3 4]", n, got)
		}
	}
}
