// Package engine resolves cp/mv operands and drives the transfers.
//
// A batch is executed in input order and stops at the first failure.
// Transfers that already completed are not undone: a batch is
// at-least-once, never atomic.
package engine

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/stackvity/joshbox/internal/apperr"
	"github.com/stackvity/joshbox/internal/config"
	"github.com/stackvity/joshbox/internal/filesystem"
	"github.com/stackvity/joshbox/internal/pathutil"
)

// Mode selects the transfer performed for each operand.
type Mode int

const (
	ModeCopy Mode = iota
	ModeMove
)

func (m Mode) String() string {
	if m == ModeMove {
		return "mv"
	}
	return "cp"
}

// Transferer moves bytes for a single operand.
type Transferer interface {
	Copy(src, dst string, opts config.TransferOptions) error
	Move(src, dst string, opts config.TransferOptions) error
}

// Operand pairs one source with the path it will be written to.
type Operand struct {
	Source string
	Target string
}

// Report summarizes a batch.
type Report struct {
	Transferred int
	Duration    time.Duration
}

// Engine orchestrates cp and mv batches.
type Engine struct {
	FS       filesystem.FileSystem
	Transfer Transferer
	Logger   *slog.Logger
}

// NewEngine creates a new Engine instance with dependencies.
func NewEngine(fsys filesystem.FileSystem, transfer Transferer, logger *slog.Logger) *Engine {
	return &Engine{
		FS:       fsys,
		Transfer: transfer,
		Logger:   logger,
	}
}

// Resolve computes the target of every source. The destination is
// classified once: when it is an existing directory each source lands
// inside it under its own basename, otherwise the destination itself is the
// target, which is only allowed for a single source.
func (e *Engine) Resolve(sources []string, dest string) ([]Operand, error) {
	if len(sources) == 0 {
		return nil, apperr.New(apperr.KindOperand, "missing destination file operand after '%s'", dest)
	}

	destIsDir := pathutil.IsDirectory(e.FS, dest)
	if len(sources) > 1 && !destIsDir {
		return nil, apperr.New(apperr.KindOperand, "target '%s' is not a directory", dest)
	}

	ops := make([]Operand, 0, len(sources))
	for _, src := range sources {
		target := dest
		if destIsDir {
			target = filepath.Join(dest, pathutil.Basename(src))
		}
		ops = append(ops, Operand{Source: src, Target: target})
	}
	return ops, nil
}

// Run resolves the operands and transfers them one at a time. It returns at
// the first same-file collision or transfer failure; the Report counts the
// operands that completed before it. ctx is checked between operands.
func (e *Engine) Run(ctx context.Context, mode Mode, sources []string, dest string, opts config.TransferOptions) (Report, error) {
	startTime := time.Now()
	var report Report

	ops, err := e.Resolve(sources, dest)
	if err != nil {
		return report, err
	}
	e.Logger.Debug("Operands resolved", "mode", mode.String(), "count", len(ops), "dest", dest)

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			report.Duration = time.Since(startTime)
			return report, err
		}

		if pathutil.SameFile(e.FS, op.Source, op.Target) {
			report.Duration = time.Since(startTime)
			return report, apperr.New(apperr.KindSameFile, "'%s' and '%s' are the same file", op.Source, op.Target)
		}

		if mode == ModeMove {
			err = e.Transfer.Move(op.Source, op.Target, opts)
		} else {
			err = e.Transfer.Copy(op.Source, op.Target, opts)
		}
		if err != nil {
			e.Logger.Debug("Transfer failed, aborting batch", "src", op.Source, "dst", op.Target, "completed", report.Transferred)
			report.Duration = time.Since(startTime)
			return report, err
		}
		report.Transferred++
	}

	report.Duration = time.Since(startTime)
	e.Logger.Debug("Batch finished", "mode", mode.String(), "transferred", report.Transferred, "duration", report.Duration)
	return report, nil
}
