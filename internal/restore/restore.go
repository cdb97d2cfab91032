// Package restore replaces a site's database from a dump file.
//
// A restore runs PENDING -> CONFIRMED -> RUNNING -> SUCCEEDED or FAILED,
// or stops at CANCELLED when the user declines. Scratch files are removed
// on every path.
package restore

import (
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rileyhilliard/dorc/internal/archive"
	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/lock"
	"github.com/rileyhilliard/dorc/internal/logger"
	"github.com/rileyhilliard/dorc/internal/project"
	"github.com/rileyhilliard/dorc/internal/session"
	"github.com/rileyhilliard/dorc/internal/target"
	"github.com/rileyhilliard/dorc/internal/ui"
)

// ErrBusy is returned when a restore is already running.
var ErrBusy = errors.New(errors.ErrRestore,
	"A restore is already running",
	"Wait for it to finish.")

// lockStale is the age after which another process's restore lock is
// taken over.
const lockStale = 6 * time.Hour

// Status is the state of a restore.
type Status int

const (
	StatusPending Status = iota
	StatusConfirmed
	StatusRunning
	StatusSucceeded
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusRunning:
		return "RUNNING"
	case StatusSucceeded:
		return "SUCCEEDED"
	case StatusFailed:
		return "FAILED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed || s == StatusCancelled
}

// Session is one restore attempt.
type Session struct {
	Dump             archive.DumpFile
	Target           target.Target
	DecompressedPath string
	Status           Status
	// Warnings lists hygiene steps that failed after a successful import.
	Warnings []string
}

// Discoverer lists candidate targets for a project.
type Discoverer interface {
	Candidates(p project.Project, drush exec.Command) []target.Target
}

// Recorder appends executed commands to history.
type Recorder interface {
	Record(context, description string, cmd exec.Command) error
}

// Pipeline runs restores. Only one runs at a time.
type Pipeline struct {
	Session     *session.Session
	Runner      exec.Runner
	Discoverer  Discoverer
	Resolver    *target.Resolver
	Prompter    ui.Prompter
	History     Recorder
	Display     *ui.PhaseDisplay
	ScratchRoot string
	// LockPath, when set, also keeps other dorc processes from restoring
	// at the same time.
	LockPath string
	Log      logger.Logger

	mu sync.Mutex
}

// Run restores the dump at path into the active target, resolving one
// first when needed. The returned Session is never nil; its Status tells
// how far the restore got. err is nil for SUCCEEDED and CANCELLED.
func (p *Pipeline) Run(path string) (*Session, error) {
	if !p.mu.TryLock() {
		return &Session{Dump: archive.NewDumpFile(path), Status: StatusFailed}, ErrBusy
	}
	defer p.mu.Unlock()

	rs := &Session{Dump: archive.NewDumpFile(path), Status: StatusPending}
	if p.LockPath != "" {
		l, err := lock.TryAcquire(p.LockPath, lock.Options{Stale: lockStale, Purpose: "restoring " + rs.Dump.Name()})
		if err != nil {
			if stderrors.Is(err, lock.ErrLocked) {
				err = errors.WrapWithCode(err, errors.ErrRestore,
					"Another dorc is restoring a database",
					"Wait for it to finish, or remove "+p.LockPath+" if it crashed.")
			}
			return p.fail(rs, err)
		}
		defer func() {
			if err := l.Release(); err != nil {
				p.log().Warn("%v", err)
			}
		}()
	}
	p.log().Info("restore %s: %s detected as %s", rs.Status, rs.Dump.Name(), rs.Dump.Format)

	if rs.Dump.Format == archive.FormatUnknown {
		return p.fail(rs, errors.WrapWithCode(archive.ErrUnknownFormat, errors.ErrArchive,
			fmt.Sprintf("Can't restore %s: unrecognized format", rs.Dump.Name()),
			"Supported: .sql, .sql.gz, .gz, .zip, .tar, .dump, .dmp"))
	}

	t, err := p.resolveTarget(rs.Dump)
	if err != nil {
		return p.fail(rs, err)
	}
	rs.Target = t

	ok, err := p.Prompter.Confirm(
		fmt.Sprintf("Replace the database of %s?", t.Label()),
		fmt.Sprintf("All tables in %s will be dropped and replaced with %s. This can't be undone.", t.Label(), rs.Dump.Name()),
	)
	if err != nil && !stderrors.Is(err, ui.ErrCancelled) {
		return p.fail(rs, err)
	}
	if !ok {
		p.transition(rs, StatusCancelled)
		return rs, nil
	}
	p.transition(rs, StatusConfirmed)

	scratch, err := archive.NewScratch(p.ScratchRoot)
	if err != nil {
		return p.fail(rs, err)
	}
	defer func() {
		if err := scratch.Cleanup(); err != nil {
			p.log().Warn("couldn't remove scratch %s: %v", scratch.Dir, err)
		}
	}()

	if err := p.prepare(rs, scratch); err != nil {
		return p.fail(rs, err)
	}

	p.transition(rs, StatusRunning)
	if err := p.importDump(rs); err != nil {
		return p.fail(rs, err)
	}

	p.transition(rs, StatusSucceeded)
	p.hygiene(rs)
	return rs, nil
}

// resolveTarget uses the active target, or narrows the project's sites by
// the dump name and asks only when more than one remains.
func (p *Pipeline) resolveTarget(dump archive.DumpFile) (target.Target, error) {
	if t, ok := p.Session.Target(); ok {
		if t.Kind == target.KindAllSites {
			return target.Target{}, errors.New(errors.ErrTarget,
				"Can't restore into all sites at once",
				"Select a single site, or clear the target to pick one for this dump.")
		}
		return t, nil
	}

	proj, err := p.Session.RequireProject()
	if err != nil {
		return target.Target{}, err
	}
	drush, err := p.Session.Drush()
	if err != nil {
		return target.Target{}, err
	}

	var sites []target.Target
	for _, c := range p.Discoverer.Candidates(proj, drush) {
		if c.Kind != target.KindAllSites {
			sites = append(sites, c)
		}
	}

	var matching []target.Target
	for _, c := range sites {
		if c.MatchesDump(dump.Path) {
			matching = append(matching, c)
		}
	}
	if len(matching) == 0 {
		matching = sites
	}
	p.log().Debug("restore: %d site(s), %d matching %s", len(sites), len(matching), dump.Name())

	return p.Resolver.Scoped(fmt.Sprintf("Restore %s into", dump.Name()), true).Resolve(p.Session, matching)
}

func (p *Pipeline) prepare(rs *Session, scratch *archive.Scratch) error {
	if !rs.Dump.NeedsExtraction() {
		p.display().Skip("Decompress", "plain SQL")
		rs.DecompressedPath = rs.Dump.Path
		return nil
	}

	p.display().Start("Decompressing " + rs.Dump.Name())
	path, err := archive.Decompress(rs.Dump, scratch)
	if err != nil {
		p.display().Fail()
		return err
	}
	p.display().Done()
	rs.DecompressedPath = path
	return nil
}

func (p *Pipeline) importDump(rs *Session) error {
	drop, err := p.Session.DrushCommand("sql:drop", "-y")
	if err != nil {
		return err
	}
	load, err := p.Session.DrushCommand("sql:cli")
	if err != nil {
		return err
	}
	load = load.WithStdin(rs.DecompressedPath)

	// An extracted file is gone once Run returns, so only an import read
	// straight from the dump can be replayed from history.
	replayable := rs.DecompressedPath == rs.Dump.Path
	if !replayable {
		p.log().Info("restore: not recording drop/import of %s, its extracted SQL is removed afterwards", rs.Dump.Name())
	}

	if err := p.step("Dropping tables in "+rs.Target.Label(), drop, replayable); err != nil {
		return err
	}
	return p.step("Importing "+rs.Dump.Name(), load, replayable)
}

// hygiene runs updatedb and cache:rebuild. Failures are warnings only.
func (p *Pipeline) hygiene(rs *Session) {
	for _, args := range [][]string{{"updatedb", "-y"}, {"cache:rebuild"}} {
		cmd, err := p.Session.DrushCommand(args...)
		if err == nil {
			err = p.run(args[0], cmd, true)
		}
		if err != nil {
			p.display().Warn(err.Error())
			p.log().Warn("restore: %s on %s failed after import: %v", args[0], rs.Target.Label(), err)
			rs.Warnings = append(rs.Warnings, fmt.Sprintf("%s: %v", args[0], err))
			continue
		}
		p.display().Done()
	}
}

func (p *Pipeline) step(name string, cmd exec.Command, record bool) error {
	if err := p.run(name, cmd, record); err != nil {
		p.display().Fail()
		return err
	}
	p.display().Done()
	return nil
}

// run executes cmd attached, records it in history when record is set and
// leaves the phase line open for the caller to close.
func (p *Pipeline) run(name string, cmd exec.Command, record bool) error {
	p.display().Start(name)
	p.display().CommandPrompt(cmd.String())
	err := exec.Check(p.Runner.Run(cmd))
	if record && p.History != nil {
		if rerr := p.History.Record(p.Session.Context(), name, cmd); rerr != nil {
			p.log().Warn("couldn't record %s in history: %v", cmd, rerr)
		}
	}
	return err
}

func (p *Pipeline) transition(rs *Session, to Status) {
	p.log().Info("restore %s -> %s: %s into %s", rs.Status, to, rs.Dump.Name(), rs.Target.Label())
	rs.Status = to
}

func (p *Pipeline) fail(rs *Session, err error) (*Session, error) {
	p.transition(rs, StatusFailed)
	p.log().Error("restore of %s failed: %v", rs.Dump.Name(), err)
	return rs, err
}

func (p *Pipeline) display() *ui.PhaseDisplay {
	if p.Display == nil {
		p.Display = ui.NewPhaseDisplay(io.Discard)
	}
	return p.Display
}

func (p *Pipeline) log() logger.Logger {
	if p.Log == nil {
		return logger.Noop()
	}
	return p.Log
}
