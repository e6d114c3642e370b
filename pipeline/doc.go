// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pipeline implements the result-processing console.

# Stages

Five stages run in a fixed order:

	lock → verify → decrypt → tally → publish

# Advancing

	p := pipeline.New(op)
	err := p.Advance(ctx)            // blocks until the stage finishes
	done, err := p.AdvanceAsync(ctx) // returns at once; done yields the outcome

Only one stage runs at a time; a second caller gets ErrBusy and the log is
not touched. Each non-final stage logs

	INITIATING: <title>...
	SUCCESS: <title> completed.

and moves the index forward. At the final stage the pipeline finalizes
once and logs a single "WORKFLOW COMPLETE. Results ready." line per call.

The work behind each stage is an Operation (see package simulate), so a
real tally backend can be plugged in without changing the state machine.
*/
package pipeline
