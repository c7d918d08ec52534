// Package reactive provides the observable value primitive for scrollock.
//
// A Value is a mutable cell holding a single value. Subscribers registered
// with Subscribe are invoked synchronously, in the assigning goroutine,
// whenever the value changes. There is no dependency tracking, no batching,
// and no scheduler: this is a plain observer pattern.
//
// # Usage
//
//	v := reactive.NewValue("auto")
//	stop := v.Subscribe(func(next string) {
//	    fmt.Println("changed to", next)
//	})
//	v.Set("hidden") // prints "changed to hidden"
//	v.Set("hidden") // no-op: value unchanged
//	stop()
//
// Assigning a value equal to the current one does not notify. This is the
// guard that keeps read/write cycles between a cell and an external sink
// from looping.
package reactive
