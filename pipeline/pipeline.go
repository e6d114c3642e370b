// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danielhkuo/smartvote/simulate"
)

// ErrBusy is returned by Advance while a stage is still running.
var ErrBusy = errors.New("a stage is already processing")

// Stage is one step of result processing.
type Stage struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultStages is the fixed processing order.
var DefaultStages = []Stage{
	{ID: "lock", Title: "Close Voting", Description: "Terminate all active voting sessions."},
	{ID: "verify", Title: "Integrity Check", Description: "Verify ballot hashes and voter signatures."},
	{ID: "decrypt", Title: "Decrypt Votes", Description: "Apply private keys to reveal ballot choices."},
	{ID: "tally", Title: "Automated Tally", Description: "Aggregate votes per candidate and department."},
	{ID: "publish", Title: "Finalize Results", Description: "Generate signed result sheet for publication."},
}

// Operation performs the work behind a stage.
type Operation = simulate.Operation[Stage, struct{}]

// Entry is one line of the processing log.
type Entry struct {
	At      time.Time `json:"at"`
	Clock   string    `json:"time"`
	Message string    `json:"msg"`
}

// Snapshot is a copy of the pipeline state.
type Snapshot struct {
	Index      int     `json:"current_step"`
	Stage      Stage   `json:"stage"`
	Stages     []Stage `json:"stages"`
	Processing bool    `json:"is_processing"`
	Complete   bool    `json:"is_complete"`
	Finalized  bool    `json:"is_finalized"`
	Log        []Entry `json:"logs"`
}

// Pipeline is a linear state machine over its stages. Advance moves one
// stage forward; there is no retry branch, reset or rollback.
type Pipeline struct {
	mu         sync.Mutex
	stages     []Stage
	op         Operation
	now        func() time.Time
	index      int
	processing bool
	finalized  bool
	log        []Entry
}

// New creates a pipeline over DefaultStages.
func New(op Operation) *Pipeline {
	return NewWithStages(DefaultStages, op)
}

// NewWithStages creates a pipeline over stages, which must not be empty.
func NewWithStages(stages []Stage, op Operation) *Pipeline {
	if len(stages) == 0 {
		panic("pipeline: no stages")
	}
	s := make([]Stage, len(stages))
	copy(s, stages)
	return &Pipeline{stages: s, op: op, now: time.Now}
}

func (p *Pipeline) last() int {
	return len(p.stages) - 1
}

func (p *Pipeline) appendLocked(format string, args ...any) {
	now := p.now()
	p.log = append(p.log, Entry{
		At:      now,
		Clock:   now.Format("15:04:05"),
		Message: fmt.Sprintf(format, args...),
	})
}

// Advance runs the current stage and waits for it. While another stage is
// processing it returns ErrBusy without touching the log.
//
// Before the last stage it logs a start and a completion line and moves to
// the next stage. At the last stage it finalizes once, logs exactly one
// completion line and keeps the index. A failed operation logs one FAILED
// line and keeps the index.
func (p *Pipeline) Advance(ctx context.Context) error {
	done, err := p.AdvanceAsync(ctx)
	if err != nil {
		return err
	}
	return <-done
}

// AdvanceAsync starts Advance in the background. The returned channel
// receives the outcome once and is then closed.
func (p *Pipeline) AdvanceAsync(ctx context.Context) (<-chan error, error) {
	p.mu.Lock()
	if p.processing {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	p.processing = true
	idx := p.index
	stage := p.stages[idx]
	terminal := idx == p.last()
	skipWork := terminal && p.finalized
	if !terminal {
		p.appendLocked("INITIATING: %s...", stage.Title)
	}
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		var err error
		if !skipWork {
			_, err = p.op.Do(ctx, stage)
		}
		done <- p.finish(stage, terminal, err)
	}()
	return done, nil
}

func (p *Pipeline) finish(stage Stage, terminal bool, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.processing = false

	if err != nil {
		p.appendLocked("FAILED: %s: %v", stage.Title, err)
		return fmt.Errorf("stage %s: %w", stage.ID, err)
	}
	if terminal {
		p.finalized = true
		p.appendLocked("WORKFLOW COMPLETE. Results ready.")
		return nil
	}
	p.appendLocked("SUCCESS: %s completed.", stage.Title)
	p.index++
	return nil
}

// Snapshot returns the current state. Complete means the last stage is
// current and nothing is processing.
func (p *Pipeline) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	stages := make([]Stage, len(p.stages))
	copy(stages, p.stages)
	log := make([]Entry, len(p.log))
	copy(log, p.log)

	return Snapshot{
		Index:      p.index,
		Stage:      p.stages[p.index],
		Stages:     stages,
		Processing: p.processing,
		Complete:   p.index == p.last() && !p.processing,
		Finalized:  p.finalized,
		Log:        log,
	}
}
