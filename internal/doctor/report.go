package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/logger"
)

const (
	reportPrefix     = "report-"
	reportSuffix     = ".txt"
	reportTimeLayout = "20060102-150405"
	logTailLines     = 50
)

// SystemInfo is the host summary included in reports.
type SystemInfo struct {
	Hostname string
	OS       string
	Platform string
	Kernel   string
	MemTotal uint64
	MemAvail uint64
}

// CollectSystemInfo reads host and memory details. Fields it can't read
// are left empty.
func CollectSystemInfo() SystemInfo {
	info := SystemInfo{OS: runtime.GOOS}
	if h, err := host.Info(); err == nil {
		info.Hostname = h.Hostname
		info.OS = h.OS
		info.Platform = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		info.Kernel = h.KernelVersion
	}
	if m, err := mem.VirtualMemory(); err == nil {
		info.MemTotal = m.Total
		info.MemAvail = m.Available
	}
	return info
}

// Report is a diagnostic snapshot taken after a failed command.
type Report struct {
	ID         string
	Created    time.Time
	Invocation exec.Command
	ExitCode   int
	Project    string
	System     SystemInfo
	Tools      []CheckResult
	LogTail    []string
}

// Reporter builds and stores reports.
type Reporter struct {
	Dir     string
	LogPath string
	Checks  func() []Check
	System  func() SystemInfo
	Now     func() time.Time
	Log     logger.Logger
}

// NewReporter creates a reporter writing into dir and quoting the tail of logPath.
func NewReporter(dir, logPath string, checks func() []Check, log logger.Logger) *Reporter {
	if log == nil {
		log = logger.Noop()
	}
	return &Reporter{
		Dir:     dir,
		LogPath: logPath,
		Checks:  checks,
		System:  CollectSystemInfo,
		Now:     time.Now,
		Log:     log,
	}
}

// Build assembles a report for a failed invocation.
func (r *Reporter) Build(cmd exec.Command, exitCode int, project string) Report {
	rep := Report{
		ID:         uuid.NewString(),
		Created:    r.Now(),
		Invocation: cmd,
		ExitCode:   exitCode,
		Project:    project,
	}
	if r.System != nil {
		rep.System = r.System()
	}
	if r.Checks != nil {
		rep.Tools = RunAll(r.Checks())
	}
	tail, err := logger.Tail(r.LogPath, logTailLines)
	if err != nil {
		r.Log.Warn("couldn't read log tail for report: %v", err)
	}
	rep.LogTail = tail
	return rep
}

// Write stores the report and returns its path.
func (r *Reporter) Write(rep Report) (string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create the reports directory",
			fmt.Sprintf("Check permissions on %s", r.Dir))
	}

	path := filepath.Join(r.Dir, reportPrefix+rep.Created.Format(reportTimeLayout)+reportSuffix)
	if err := os.WriteFile(path, []byte(rep.Render()), 0o644); err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write the diagnostic report",
			fmt.Sprintf("Check permissions on %s", r.Dir))
	}
	r.Log.Info("diagnostic report %s written to %s", rep.ID, path)
	return path, nil
}

// Render formats the report as plain text.
func (rep Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dorc diagnostic report %s\n", rep.ID)
	fmt.Fprintf(&b, "created: %s\n\n", rep.Created.Format(time.RFC3339))

	b.WriteString("== Failed command ==\n")
	fmt.Fprintf(&b, "command:   %s\n", rep.Invocation)
	fmt.Fprintf(&b, "exit code: %d\n", rep.ExitCode)
	if rep.Invocation.Dir != "" {
		fmt.Fprintf(&b, "directory: %s\n", rep.Invocation.Dir)
	}
	if rep.Project != "" {
		fmt.Fprintf(&b, "project:   %s\n", rep.Project)
	}

	b.WriteString("\n== System ==\n")
	fmt.Fprintf(&b, "hostname: %s\n", rep.System.Hostname)
	fmt.Fprintf(&b, "os:       %s %s\n", rep.System.OS, rep.System.Platform)
	if rep.System.Kernel != "" {
		fmt.Fprintf(&b, "kernel:   %s\n", rep.System.Kernel)
	}
	if rep.System.MemTotal > 0 {
		fmt.Fprintf(&b, "memory:   %s available of %s\n", formatBytes(rep.System.MemAvail), formatBytes(rep.System.MemTotal))
	}

	b.WriteString("\n== Tools ==\n")
	for _, t := range rep.Tools {
		fmt.Fprintf(&b, "[%s] %s\n", t.Status, t.Message)
	}

	b.WriteString("\n== Log tail ==\n")
	for _, line := range rep.LogTail {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// LatestReport returns the newest report in dir, or "" when there is none.
// Report names sort chronologically.
func LatestReport(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}

	var names []string
	for _, e := range entries {
		n := e.Name()
		if !e.IsDir() && strings.HasPrefix(n, reportPrefix) && strings.HasSuffix(n, reportSuffix) {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return "", nil
	}
	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

func formatBytes(n uint64) string {
	const gib = 1 << 30
	const mib = 1 << 20
	if n >= gib {
		return fmt.Sprintf("%.1f GiB", float64(n)/gib)
	}
	return fmt.Sprintf("%.0f MiB", float64(n)/mib)
}
