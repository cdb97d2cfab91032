package restore

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dorc/internal/archive"
	dorcerrors "github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	exectest "github.com/rileyhilliard/dorc/internal/exec/testing"
	"github.com/rileyhilliard/dorc/internal/lock"
	"github.com/rileyhilliard/dorc/internal/logger"
	"github.com/rileyhilliard/dorc/internal/project"
	"github.com/rileyhilliard/dorc/internal/session"
	"github.com/rileyhilliard/dorc/internal/target"
	"github.com/rileyhilliard/dorc/internal/terminal"
	termtest "github.com/rileyhilliard/dorc/internal/terminal/testing"
	"github.com/rileyhilliard/dorc/internal/ui"
	uitest "github.com/rileyhilliard/dorc/internal/ui/testing"
)

const dumpSQL = "CREATE TABLE node (nid int);\n"

type recorded struct {
	context, description string
	cmd                  exec.Command
}

type fakeHistory struct{ entries []recorded }

func (h *fakeHistory) Record(context, description string, cmd exec.Command) error {
	h.entries = append(h.entries, recorded{context, description, cmd})
	return nil
}

type fakeDiscoverer struct{ targets []target.Target }

func (d fakeDiscoverer) Candidates(project.Project, exec.Command) []target.Target {
	return d.targets
}

type fixture struct {
	pipeline *Pipeline
	runner   *exectest.FakeRunner
	prompter *uitest.FakePrompter
	keys     *termtest.FakeKeys
	history  *fakeHistory
	sess     *session.Session
	scratch  string
	out      *bytes.Buffer
}

func newFixture(t *testing.T, candidates ...target.Target) *fixture {
	t.Helper()
	root := t.TempDir()
	sess := session.New("drush")
	sess.SetProject(project.Project{Root: root, Webroot: filepath.Join(root, "web")})

	f := &fixture{
		runner:   exectest.NewFakeRunner(),
		prompter: uitest.NewFakePrompter(),
		keys:     termtest.NewFakeKeys(),
		history:  &fakeHistory{},
		sess:     sess,
		scratch:  filepath.Join(t.TempDir(), "scratch"),
		out:      &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(f.scratch, 0o755))

	f.pipeline = &Pipeline{
		Session:     sess,
		Runner:      f.runner,
		Discoverer:  fakeDiscoverer{targets: candidates},
		Resolver:    target.NewResolver(f.keys, &bytes.Buffer{}),
		Prompter:    f.prompter,
		History:     f.history,
		Display:     ui.NewPhaseDisplay(f.out),
		ScratchRoot: f.scratch,
		Log:         logger.NewBufferLogger(),
	}
	return f
}

func (f *fixture) scratchLeftovers(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.scratch)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func writeGzipDump(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(dumpSQL))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestPipeline_EndToEnd_GzipIntoActiveTarget(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(true)
	dump := writeGzipDump(t, "site_a.sql.gz")

	rs, err := f.pipeline.Run(dump)

	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, rs.Status)
	assert.Equal(t, "site_a.sql", filepath.Base(rs.DecompressedPath))
	assert.Empty(t, rs.Warnings)

	cmds := f.runner.Commands()
	require.Len(t, cmds, 4)
	assert.Equal(t, "drush @sitea sql:drop -y", cmds[0])
	assert.True(t, strings.HasPrefix(cmds[1], "drush @sitea sql:cli < "))
	assert.Equal(t, rs.DecompressedPath, f.runner.Calls[1].Cmd.Stdin)
	assert.Equal(t, "drush @sitea updatedb -y", cmds[2])
	assert.Equal(t, "drush @sitea cache:rebuild", cmds[3])

	// the import saw the inflated SQL while it ran
	assert.Equal(t, dumpSQL, f.runner.Calls[1].StdinData)
	for _, c := range f.runner.Calls {
		assert.True(t, c.Attached)
	}

	_, statErr := os.Stat(rs.DecompressedPath)
	assert.True(t, os.IsNotExist(statErr), "scratch file must be removed")
	assert.Empty(t, f.scratchLeftovers(t))

	// drop and import read a scratch file that no longer exists, so only
	// the hygiene commands are replayable
	require.Len(t, f.history.entries, 2)
	assert.Equal(t, f.sess.Context(), f.history.entries[0].context)
	assert.Equal(t, "drush @sitea updatedb -y", f.history.entries[0].cmd.String())
	assert.Equal(t, "drush @sitea cache:rebuild", f.history.entries[1].cmd.String())
	assert.Len(t, f.prompter.ConfirmCalls, 1)
	assert.Equal(t, 0, f.keys.Reads, "active target means no picker")
}

func TestPipeline_PlainSQLUsedInPlace(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(true)
	dump := filepath.Join(t.TempDir(), "site_a.sql")
	require.NoError(t, os.WriteFile(dump, []byte(dumpSQL), 0o644))

	rs, err := f.pipeline.Run(dump)

	require.NoError(t, err)
	assert.Equal(t, dump, rs.DecompressedPath)
	assert.FileExists(t, dump, "the user's dump is never deleted")
	assert.Contains(t, f.out.String(), "plain SQL")

	require.Len(t, f.history.entries, 4)
	assert.Equal(t, "drush @sitea sql:drop -y", f.history.entries[0].cmd.String())
	imported := f.history.entries[1].cmd
	assert.Equal(t, dump, imported.Stdin)
	assert.FileExists(t, imported.Stdin, "recorded import must stay replayable")
}

func TestPipeline_UnknownFormatFailsBeforeAnything(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))

	rs, err := f.pipeline.Run("/dumps/notes.txt")

	assert.ErrorIs(t, err, archive.ErrUnknownFormat)
	assert.Equal(t, StatusFailed, rs.Status)
	assert.Empty(t, f.runner.Calls)
	assert.Empty(t, f.prompter.ConfirmCalls)
}

func TestPipeline_DeclineCancels(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(false)

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, rs.Status)
	assert.Empty(t, f.runner.Calls)
	assert.Empty(t, f.scratchLeftovers(t))
}

func TestPipeline_DismissedPromptCancels(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, rs.Status)
}

func TestPipeline_DecompressFailureLeavesNoScratch(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(true)
	dump := filepath.Join(t.TempDir(), "site_a.sql.gz")
	require.NoError(t, os.WriteFile(dump, []byte("definitely not gzip"), 0o644))

	rs, err := f.pipeline.Run(dump)

	require.Error(t, err)
	assert.Equal(t, StatusFailed, rs.Status)
	assert.Empty(t, f.runner.Calls, "nothing is dropped when the dump can't be read")
	assert.Empty(t, f.scratchLeftovers(t))
}

func TestPipeline_DropFailureFails(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(true)
	f.runner.On("drush @sitea sql:drop", exectest.Response{Code: 1})

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.Error(t, err)
	assert.Equal(t, StatusFailed, rs.Status)
	assert.Equal(t, []string{"drush @sitea sql:drop -y"}, f.runner.Commands())
	assert.Empty(t, f.scratchLeftovers(t))
}

func TestPipeline_HygieneFailureOnlyWarns(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(true)
	f.runner.On("drush @sitea updatedb", exectest.Response{Code: 1})

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, rs.Status)
	require.Len(t, rs.Warnings, 1)
	assert.Contains(t, rs.Warnings[0], "updatedb")
	assert.True(t, f.runner.Ran("drush @sitea cache:rebuild"), "cache rebuild still runs")
	assert.True(t, f.pipeline.Log.(*logger.BufferLogger).HasLevel("warn"))
}

func TestPipeline_AutoSelectsSingleMatchingSite(t *testing.T) {
	f := newFixture(t, target.Alias("sitea"), target.Alias("siteb"), target.AllSites())
	f.prompter.AnswerConfirm(true)

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.NoError(t, err)
	assert.Equal(t, target.Alias("sitea"), rs.Target)
	assert.Equal(t, 0, f.keys.Reads)
	active, ok := f.sess.Target()
	assert.True(t, ok)
	assert.Equal(t, target.Alias("sitea"), active)
}

func TestPipeline_AsksWhenSeveralSitesMatch(t *testing.T) {
	f := newFixture(t, target.Alias("site.dev"), target.Alias("site.prod"), target.AllSites())
	f.keys.PushKinds(terminal.KeyDown, terminal.KeyEnter)
	f.prompter.AnswerConfirm(true)

	rs, err := f.pipeline.Run(writeGzipDump(t, "site.sql.gz"))

	require.NoError(t, err)
	assert.Equal(t, target.Alias("site.prod"), rs.Target)
	assert.Equal(t, 2, f.keys.Reads)
}

func TestPipeline_PickerCancelFails(t *testing.T) {
	f := newFixture(t, target.Alias("alpha"), target.Alias("beta"), target.AllSites())
	f.keys.PushKinds(terminal.KeyEscape)

	rs, err := f.pipeline.Run(writeGzipDump(t, "nightly.sql.gz"))

	assert.ErrorIs(t, err, target.ErrNoTarget)
	assert.Equal(t, StatusFailed, rs.Status)
	assert.Empty(t, f.runner.Calls)
}

func TestPipeline_NoSitesFails(t *testing.T) {
	f := newFixture(t, target.AllSites())

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	assert.ErrorIs(t, err, target.ErrNoTarget)
	assert.Equal(t, StatusFailed, rs.Status)
}

func TestPipeline_RefusesAllSitesTarget(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.AllSites())

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.Error(t, err)
	assert.Equal(t, StatusFailed, rs.Status)
	assert.Empty(t, f.prompter.ConfirmCalls)
}

func TestPipeline_Busy(t *testing.T) {
	f := newFixture(t)
	f.pipeline.mu.Lock()
	defer f.pipeline.mu.Unlock()

	rs, err := f.pipeline.Run("site_a.sql")

	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, StatusFailed, rs.Status)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "CONFIRMED", StatusConfirmed.String())
	assert.False(t, StatusRunning.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusSucceeded.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestPipeline_ReleasesProcessLock(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.prompter.AnswerConfirm(true)
	f.pipeline.LockPath = filepath.Join(t.TempDir(), "restore.lock")

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, rs.Status)
	assert.NoDirExists(t, f.pipeline.LockPath)
}

func TestPipeline_RefusesWhileAnotherProcessRestores(t *testing.T) {
	f := newFixture(t)
	f.sess.SetTarget(target.Alias("sitea"))
	f.pipeline.LockPath = filepath.Join(t.TempDir(), "restore.lock")
	held, err := lock.TryAcquire(f.pipeline.LockPath, lock.Options{Purpose: "restoring other.sql"})
	require.NoError(t, err)
	defer held.Release()

	rs, err := f.pipeline.Run(writeGzipDump(t, "site_a.sql.gz"))

	require.ErrorIs(t, err, lock.ErrLocked)
	assert.True(t, dorcerrors.IsCode(err, dorcerrors.ErrRestore))
	assert.Equal(t, StatusFailed, rs.Status)
	assert.Empty(t, f.prompter.ConfirmCalls)
}
