// Package sysinfo captures the environment a run was recorded on, for
// the sys-info block of graph exports.
package sysinfo

import (
	"os"
	"runtime"
)

type Info struct {
	Hostname  string `json:"hostname"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	CPUs      int    `json:"cpus"`
	GoVersion string `json:"go_version"`
}

func Collect() Info {
	hostname, _ := os.Hostname()
	return Info{
		Hostname:  hostname,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}
}
