package version

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Info captures a toolchain version installed on the system.
type Info struct {
	Name    string
	Version string
	Channel string
}

// Release channels reported by cargo.
const (
	ChannelStable  = "stable"
	ChannelBeta    = "beta"
	ChannelNightly = "nightly"
	ChannelDev     = "dev"
)

var cargoRegex = regexp.MustCompile(`(?i)cargo\s+(\d+\.\d+\.\d+)(?:-(beta|nightly|dev)(?:\.\d+)?)?`)

// DetectCargo returns the cargo version by calling `cargo -V` in dir.
func DetectCargo(dir string) (Info, error) {
	out, err := runCommand(dir, "cargo", "-V")
	if err != nil {
		return Info{}, err
	}
	return ParseCargo(out)
}

// ParseCargo parses the output of `cargo -V`.
func ParseCargo(out string) (Info, error) {
	match := cargoRegex.FindStringSubmatch(out)
	if len(match) < 2 {
		return Info{}, fmt.Errorf("unable to parse cargo version from %q", out)
	}
	channel := strings.ToLower(match[2])
	if channel == "" {
		channel = ChannelStable
	}
	return Info{Name: "cargo", Version: match[1], Channel: channel}, nil
}

// SupportsUnstableOptions reports whether the toolchain accepts `-Z` flags,
// which the libtest JSON formatter requires.
func (i Info) SupportsUnstableOptions() bool {
	return i.Channel == ChannelNightly || i.Channel == ChannelDev
}

func runCommand(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = nil
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	if err := cmd.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// Missing reports whether executing the command returns a not-found error.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound)
}
