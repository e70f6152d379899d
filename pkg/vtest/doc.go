// Package vtest provides testing helpers for toast centers and views.
//
// # Manual Clock
//
// Clock implements toast.Clock without real time passing. Advance moves the
// clock forward and runs every timer that became due, in deadline order:
//
//	clock := vtest.NewClock(time.Unix(0, 0))
//	center := toast.New(toast.DefaultConfig(), toast.WithClock(clock))
//	defer center.Close()
//
//	h := center.Info("Saved")
//	clock.Advance(4 * time.Second)
//	// h is now Dismissing
//
// # Event Recorder
//
// Recorder collects center events for assertions:
//
//	rec := vtest.NewRecorder()
//	center := toast.New(cfg, toast.WithObserver(rec))
//	...
//	if n := rec.Count(toast.EventRemoved); n != 1 {
//	    t.Fatalf("removed = %d, want 1", n)
//	}
//
// # Render Assertions
//
//	vtest.ExpectContains(t, center.View(), "Saved")
//	vtest.ExpectAttribute(t, center.View(), "data-state", "visible")
package vtest
