package coroloop_test

import (
	"fmt"
	"time"

	"github.com/joeycumines/go-coroloop"
)

func Example() {
	loop, _ := coroloop.NewLoop()
	loop.Init()
	defer loop.Destroy()

	count := func(tag string) *coroloop.Coro {
		return coroloop.NewFunc(func(y *coroloop.Yield) {
			for i := 0; i < 2; i++ {
				fmt.Println(tag, i)
				y.Yield()
			}
		}, nil)
	}

	loop.AddTask(count("a"))
	loop.AddTask(count("b"))
	loop.RunForever()

	// Output:
	// a 0
	// b 0
	// a 1
	// b 1
}

func ExampleGather() {
	loop, _ := coroloop.NewLoop()
	loop.Init()
	defer loop.Destroy()
	defer coroloop.SetEventLoop(coroloop.SetEventLoop(loop))

	g := coroloop.GatherOf(
		coroloop.Sleep(time.Millisecond),
		coroloop.Sleep(2*time.Millisecond),
		coroloop.Sleep(3*time.Millisecond),
	)
	loop.RunUntilComplete(g)
	fmt.Println("all done:", g.Err())

	// Output:
	// all done: OK
}

func ExampleWaitFor() {
	loop, _ := coroloop.NewLoop()
	loop.Init()
	defer loop.Destroy()
	defer coroloop.SetEventLoop(coroloop.SetEventLoop(loop))

	w := coroloop.WaitFor(coroloop.Sleep(time.Hour), 5*time.Millisecond)
	loop.RunUntilComplete(w)
	fmt.Println(w.Err())

	// Output:
	// canceled
}
