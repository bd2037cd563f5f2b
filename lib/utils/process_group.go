package utils

import (
	"context"
	"runtime"
	"sync"
)

type ParallelOptions struct {
	Routines     int
	InputFactor  int
	OutputFactor int
}

// ProcessGroup runs proc over everything submitted to it using a fixed number
// of goroutines. Output is closed once input is finished and every routine is
// done, or once the context is cancelled.
type ProcessGroup[I, O any] struct {
	ctx  context.Context
	proc func(context.Context, I) O
	wg   sync.WaitGroup

	input  chan I
	Output chan O
}

func NewProcessGroup[I, O any](ctx context.Context, proc func(context.Context, I) O, opts ...ParallelOptions) *ProcessGroup[I, O] {
	o := ParallelOptions{
		Routines:     Max(Min(runtime.GOMAXPROCS(-1), runtime.NumCPU()/2)-1, 1),
		InputFactor:  2,
		OutputFactor: 2,
	}
	for _, oi := range opts {
		if oi.Routines > 0 {
			o.Routines = oi.Routines
		}
		if oi.InputFactor > 0 {
			o.InputFactor = oi.InputFactor
		}
		if oi.OutputFactor > 0 {
			o.OutputFactor = oi.OutputFactor
		}
	}

	group := ProcessGroup[I, O]{
		ctx:  ctx,
		proc: proc,

		input:  make(chan I, o.InputFactor*o.Routines),
		Output: make(chan O, o.OutputFactor*o.Routines),
	}

	for i := 0; i < o.Routines; i++ {
		group.wg.Add(1)
		go group.runProcessor()
	}

	go func() {
		group.wg.Wait()
		close(group.Output)
	}()

	return &group
}

func (g *ProcessGroup[I, O]) runProcessor() {
	defer g.wg.Done()

	for {
		select {
		case <-g.ctx.Done():
			return

		case input, ok := <-g.input:
			if !ok {
				return
			}

			output := g.proc(g.ctx, input)

			select {
			case g.Output <- output:
			case <-g.ctx.Done():
				return
			}
		}
	}
}

// Submit blocks until the input is accepted. Returns false if the context was
// cancelled first.
func (g *ProcessGroup[I, O]) Submit(input I) bool {
	select {
	case g.input <- input:
		return true
	case <-g.ctx.Done():
		return false
	}
}

func (g *ProcessGroup[I, O]) FinishedInput() {
	close(g.input)
}
