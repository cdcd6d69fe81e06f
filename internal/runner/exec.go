package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

// ErrSpawn is returned when the test process cannot be started.
var ErrSpawn = errors.New("unable to run test process")

// DefaultCommand and DefaultArgs ask libtest for its JSON event stream.
const DefaultCommand = "cargo"

// DefaultArgs returns the arguments passed to DefaultCommand.
func DefaultArgs() []string {
	return []string{"test", "--", "--format", "json", "-Z", "unstable-options"}
}

// Options configure how the runner executes the test process.
type Options struct {
	Dir       string
	Command   string
	Args      []string
	Env       map[string]string
	BaseEnv   []string
	Stderr    io.Writer
	Verbose   bool
	TailLines int
	Now       func() time.Time
}

// Result is the complete capture of one test process.
type Result struct {
	Stdout   []byte
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Runner executes the test process once.
type Runner struct {
	opts Options
}

// New creates a runner with the supplied options.
func New(opts Options) *Runner {
	if opts.Command == "" {
		opts.Command = DefaultCommand
		if opts.Args == nil {
			opts.Args = DefaultArgs()
		}
	}
	opts.Args = append([]string{}, opts.Args...)
	if opts.Stderr == nil {
		opts.Stderr = io.Discard
	}
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	if opts.BaseEnv == nil {
		opts.BaseEnv = os.Environ()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Runner{opts: opts}
}

// CommandLine returns the command as it would be typed in a shell.
func (r *Runner) CommandLine() string {
	return strings.Join(append([]string{r.opts.Command}, r.opts.Args...), " ")
}

// Run starts the process, waits for it to exit and returns everything it
// wrote to stdout. A non-zero exit status is not an error: libtest exits 101
// whenever a test fails.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	cmd := exec.CommandContext(ctx, r.opts.Command, r.opts.Args...)
	cmd.Dir = r.opts.Dir
	cmd.Env = mergeEnv(r.opts.BaseEnv, r.opts.Env)

	var stdoutBuf bytes.Buffer
	var stderrBuf strings.Builder
	cmd.Stdout = &stdoutBuf
	if r.opts.Verbose {
		cmd.Stderr = io.MultiWriter(r.opts.Stderr, &stderrBuf)
	} else {
		cmd.Stderr = &stderrBuf
	}

	start := r.opts.Now()
	err := cmd.Run()
	result := Result{
		Stdout:   stdoutBuf.Bytes(),
		Stderr:   tailLines(stderrBuf.String(), r.opts.TailLines),
		ExitCode: exitCode(err),
		Duration: r.opts.Now().Sub(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return result, fmt.Errorf("%w %q: %v", ErrSpawn, r.CommandLine(), err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
	}
	return result, nil
}

func mergeEnv(base []string, overlays ...map[string]string) []string {
	envMap := make(map[string]string, len(base)+len(overlays)*4)
	for _, kv := range base {
		if idx := strings.Index(kv, "="); idx != -1 {
			key := kv[:idx]
			envMap[key] = kv[idx+1:]
		}
	}
	for _, overlay := range overlays {
		for k, v := range overlay {
			envMap[k] = v
		}
	}
	keys := make([]string, 0, len(envMap))
	for k := range envMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, envMap[k]))
	}
	return out
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func tailLines(input string, maxLines int) string {
	if input == "" {
		return ""
	}
	lines := strings.Split(strings.TrimRight(input, "\n"), "\n")
	if len(lines) <= maxLines {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-maxLines:], "\n")
}
