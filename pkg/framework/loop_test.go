package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testMsg struct {
	n int
}

func (m *testMsg) NewMessage() Message { return &testMsg{} }

func TestLoopPriorityOrder(t *testing.T) {
	var order []int
	loop := NewLoop()
	for _, lv := range []int{PrLvAcuate, PrLvSense, PrLvControl} {
		level := lv
		loop.AddController(level, ControlFunc(func(cc ControlContext) error {
			require.Equal(t, level, cc.PriorityLevel())
			order = append(order, level)
			return nil
		}))
	}
	loop.RunIteration(context.Background(), time.Now())
	require.Equal(t, []int{PrLvSense, PrLvControl, PrLvAcuate}, order)
}

func TestLoopMessages(t *testing.T) {
	loop := NewLoop()
	var taken, seenLater []int
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			if m := mc.CurrentMessage().(*testMsg); m.n%2 == 0 {
				taken = append(taken, m.n)
				mc.MessageTaken()
			}
		}))
		return nil
	}))
	loop.AddController(PrLvPostProc, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seenLater = append(seenLater, mc.CurrentMessage().(*testMsg).n)
		}))
		return nil
	}))
	for i := 0; i < 5; i++ {
		loop.PostMessage(&testMsg{n: i})
	}
	loop.RunIteration(context.Background(), time.Now())
	require.Equal(t, []int{0, 2, 4}, taken)
	require.Equal(t, []int{1, 3}, seenLater)

	taken, seenLater = nil, nil
	loop.RunIteration(context.Background(), time.Now())
	require.Empty(t, taken)
	require.Empty(t, seenLater)
}

func TestLoopStopProcessing(t *testing.T) {
	loop := NewLoop()
	var seen []int
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			seen = append(seen, mc.CurrentMessage().(*testMsg).n)
			mc.StopProcessing()
		}))
		return nil
	}))
	loop.PostMessage(&testMsg{n: 1})
	loop.PostMessage(&testMsg{n: 2})
	loop.RunIteration(context.Background(), time.Now())
	require.Equal(t, []int{1}, seen)
}

func TestPeriodicController(t *testing.T) {
	runs := 0
	p := Every(50*time.Millisecond, ControlFunc(func(ControlContext) error {
		runs++
		return nil
	}))
	loop := NewLoop().AddController(PrLvAcuate, p)
	start := time.Now()
	at := func(d time.Duration) {
		loop.RunIteration(context.Background(), start.Add(d))
	}

	at(0)
	require.Equal(t, 1, runs)
	at(10 * time.Millisecond)
	at(30 * time.Millisecond)
	require.Equal(t, 1, runs)
	// slightly early iteration still counts
	at(48 * time.Millisecond)
	require.Equal(t, 2, runs)
	at(60 * time.Millisecond)
	require.Equal(t, 2, runs)
	at(100 * time.Millisecond)
	require.Equal(t, 3, runs)
	// fell far behind, one run and schedule restarts
	at(400 * time.Millisecond)
	require.Equal(t, 4, runs)
	at(420 * time.Millisecond)
	require.Equal(t, 4, runs)
	at(450 * time.Millisecond)
	require.Equal(t, 5, runs)
}

func TestLoopRunTriggerNext(t *testing.T) {
	loop := NewLoop()
	loop.Interval = time.Hour
	msgCh := make(chan int, 1)
	loop.AddController(PrLvControl, ControlFunc(func(cc ControlContext) error {
		cc.Messages().ProcessMessages(ProcessMessageFunc(func(mc MessageProcessingContext) {
			msgCh <- mc.CurrentMessage().(*testMsg).n
			mc.MessageTaken()
		}))
		return nil
	}))
	loop.AddRunnable(RunFunc(func(ctx context.Context) error {
		lc := LoopCtlFrom(ctx)
		lc.PostMessage(&testMsg{n: 7})
		lc.TriggerNext()
		<-ctx.Done()
		return ctx.Err()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()
	select {
	case n := <-msgCh:
		require.Equal(t, 7, n)
	case <-time.After(time.Second):
		t.Fatal("message not processed")
	}
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
}

func TestRunnerAggregatesErrors(t *testing.T) {
	errA := errors.New("a")
	r := NewRunner().Go(
		RunFunc(func(context.Context) error { return errA }),
		NamedRun("canceled", RunFunc(func(context.Context) error { return context.Canceled })),
		RunFunc(func(context.Context) error { return nil }),
	)
	err := r.Wait()
	require.Error(t, err)
	require.Equal(t, []error{errA}, err.(*AggregatedError).Errors)
	require.Equal(t, "a", err.Error())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestRunWithContextCloser(t *testing.T) {
	unblock := make(chan struct{})
	closed := 0
	closer := closerFunc(func() error {
		closed++
		close(unblock)
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := RunWithContextCloser(ctx, closer, func() error {
		<-unblock
		return errors.New("closed")
	})
	require.Equal(t, context.Canceled, err)
	require.Equal(t, 1, closed)
}
