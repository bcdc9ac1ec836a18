// Package platform inspects the host environment for signals that matter to
// terminal rendering: minimal libc distributions, emulated or mobile
// terminals, ARM hardware and WSL. Detection is best-effort; unreadable
// sources are treated as absent signals, never as failures.
package platform

import (
	"os"
	"runtime"
	"strings"
)

const procVersionPath = "/proc/version"

// Info describes the detected platform characteristics.
type Info struct {
	System  string
	Machine string

	IsARM     bool
	IsAlpine  bool
	IsISH     bool
	IsTermux  bool
	IsAndroid bool
	IsWSL     bool

	// IsLimitedTerminal aggregates the environments known to render slowly.
	IsLimitedTerminal bool

	// SuggestedMaxFPS is a conservative upper bound for frame pacing on
	// this platform.
	SuggestedMaxFPS float64
}

const (
	limitedMaxFPS  = 12.0
	standardMaxFPS = 24.0
)

// Probe detects the current platform. It never fails: every signal that
// cannot be read is simply reported as false.
func Probe() Info {
	return probe(readProcVersion())
}

func probe(procVersion string) Info {
	info := Info{
		System:  runtime.GOOS,
		Machine: runtime.GOARCH,
	}

	info.IsARM = isARMArch(info.Machine)
	info.IsAlpine = fileExists("/etc/alpine-release")
	info.IsISH = strings.Contains(procVersion, "ish")
	info.IsTermux = strings.Contains(os.Getenv("PREFIX"), "com.termux")
	info.IsAndroid = os.Getenv("ANDROID_DATA") != ""

	if info.System == "linux" {
		info.IsWSL = strings.Contains(procVersion, "microsoft") || strings.Contains(procVersion, "wsl")
	}

	info.IsLimitedTerminal = info.IsAlpine || info.IsISH || info.IsTermux

	info.SuggestedMaxFPS = standardMaxFPS
	if info.IsLimitedTerminal {
		info.SuggestedMaxFPS = limitedMaxFPS
	}

	return info
}

func isARMArch(machine string) bool {
	return strings.Contains(machine, "arm") || strings.Contains(machine, "aarch")
}

func readProcVersion() string {
	data, err := os.ReadFile(procVersionPath)
	if err != nil {
		return ""
	}

	return strings.ToLower(string(data))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
