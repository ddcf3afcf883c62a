// Package reactor manages one dedicated goroutine performing blocking,
// OS-level polling and fans its decoded events out to any number of
// subscribers.
//
// A Reactor reconciles a worker that wants to block efficiently with
// callers that need to tell it "stop" or "you might be able to recover",
// without data races, leaked goroutines, or stranded subscribers. Domain
// logic plugs in through three small interfaces: Worker (one blocking
// poll per call), Factory (builds worker sessions and supplies the
// restart policy), and Waker (interrupts the blocking wait from any
// goroutine).
//
// # Lifecycle
//
// The first Subscribe creates the worker, spawns the goroutine, and
// registers a receiver; further Subscribes attach to the running
// goroutine. Per poll the worker returns a Continuation: Continue polls
// again, Stop ends the goroutine, and Restart asks the reactor to replace
// the worker session under the factory's RestartPolicy. Exhausted
// restarts and contained panics are reported to every subscriber as a
// KindShutdown event; the reactor itself survives and a later Subscribe
// spawns fresh.
//
// # Basic Usage
//
//	r, err := reactor.New[Input](factory,
//	    reactor.WithName[Input]("pty-reader"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	sub, err := r.Subscribe()
//	if err != nil {
//	    return err
//	}
//	defer sub.Close()
//
//	for {
//	    ev, err := sub.Recv(ctx)
//	    if err != nil {
//	        var lag *broadcast.LagError
//	        if errors.As(err, &lag) {
//	            log.Printf("missed %d events", lag.Missed)
//	            continue
//	        }
//	        return err
//	    }
//	    switch ev.Kind {
//	    case reactor.KindWorker:
//	        handle(ev.Data)
//	    case reactor.KindShutdown:
//	        log.Printf("reactor exited: %s", ev.Shutdown)
//	        return nil
//	    }
//	}
//
// Closing the Subscription is the only unsubscribe mechanism; it wakes
// the worker so it can notice when the last listener is gone and stop.
package reactor
