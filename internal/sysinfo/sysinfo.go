// Package sysinfo collects the local device identity shown to peers.
package sysinfo

import (
	"bufio"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/localdrop/localdrop/internal/model"
)

// osReleasePaths are checked in order for the distribution name.
var osReleasePaths = []string{"/etc/os-release", "/usr/lib/os-release"}

var (
	appIDOnce sync.Once
	appID     string
)

// AppID returns an identifier that is stable for the life of the process.
func AppID() string {
	appIDOnce.Do(func() {
		appID = uuid.NewString()
	})
	return appID
}

// Info is the local system description.
type Info struct {
	Hostname string `json:"hostname"`
	OS       string `json:"os"`
	Arch     string `json:"arch"`
	ID       string `json:"id"`
}

// DeviceInfo returns the wire view used in transfer requests.
func (i Info) DeviceInfo() model.DeviceInfo {
	return model.DeviceInfo{
		Hostname: i.Hostname,
		OSType:   i.OS,
		ID:       i.ID,
	}
}

// Collect gathers hostname, OS and architecture. Missing pieces are left
// empty rather than failing.
func Collect() Info {
	hostname, _ := os.Hostname()
	return Info{
		Hostname: hostname,
		OS:       LongOSName(),
		Arch:     runtime.GOARCH,
		ID:       AppID(),
	}
}

// LongOSName returns the os-release PRETTY_NAME when available,
// otherwise a name derived from GOOS.
func LongOSName() string {
	if runtime.GOOS == "linux" {
		for _, p := range osReleasePaths {
			f, err := os.Open(p)
			if err != nil {
				continue
			}
			name := parseOSRelease(f)
			_ = f.Close()
			if name != "" {
				return name
			}
		}
	}
	return goosName(runtime.GOOS)
}

// parseOSRelease reads PRETTY_NAME, falling back to NAME plus VERSION_ID.
func parseOSRelease(r io.Reader) string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"'`)
	}

	if v := fields["PRETTY_NAME"]; v != "" {
		return v
	}
	return strings.TrimSpace(fields["NAME"] + " " + fields["VERSION_ID"])
}

func goosName(goos string) string {
	switch goos {
	case "linux":
		return "Linux"
	case "darwin":
		return "macOS"
	case "windows":
		return "Windows"
	case "android":
		return "Android"
	case "ios":
		return "iOS"
	case "freebsd":
		return "FreeBSD"
	default:
		return goos
	}
}
