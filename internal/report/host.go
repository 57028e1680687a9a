// host.go gathers the host facts that go into the report-host artifact.
// Every source is read below the configured sysroot, so a report can be
// taken against a mounted image as well as the live system.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// hostSources are the files read into the host artifact, in output order.
// Paths are relative to the sysroot.
var hostSources = []struct {
	title string
	path  string
}{
	{"kernel release", "proc/sys/kernel/osrelease"},
	{"kernel version", "proc/version"},
	{"os release", "etc/os-release"},
	{"uptime", "proc/uptime"},
	{"load average", "proc/loadavg"},
	{"loaded modules", "proc/modules"},
}

// writeHostFacts writes the hostname and each host source to w, returning
// the titles of sources that could not be read. A missing source is normal
// (containers, stripped images); the caller logs them at debug level.
func writeHostFacts(w io.Writer, sysroot string) (skipped []string) {
	if sysroot == "" {
		sysroot = "/"
	}

	if hostname, err := os.Hostname(); err == nil {
		fmt.Fprintf(w, "[hostname]\n%s\n\n", hostname)
	} else {
		skipped = append(skipped, "hostname")
	}

	for _, src := range hostSources {
		data, err := os.ReadFile(filepath.Join(sysroot, src.path))
		if err != nil {
			skipped = append(skipped, src.title)
			continue
		}
		fmt.Fprintf(w, "[%s]\n%s\n", src.title, data)
	}

	return skipped
}
