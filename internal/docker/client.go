// client.go implements Docker client construction with automatic socket
// detection, plus the daemon reachability probe.
package docker

import (
	"context"
	"fmt"
	"net"
	"os"
	"runtime"
	"time"

	"github.com/docker/docker/client"
)

// defaultPingTimeout bounds the daemon reachability probe. Five seconds
// covers slow Docker Desktop environments without stalling a report run
// on hosts with no daemon at all.
const defaultPingTimeout = 5 * time.Second

// Client wraps the Docker SDK client behind sos-specific construction:
// socket detection, bounded pings, and the container enumeration the
// report component consumes.
type Client struct {
	inner *client.Client
}

// NewClient creates a Docker client. DOCKER_HOST is respected when set;
// otherwise the platform's default socket locations are probed. An error
// means no usable daemon endpoint exists on this host.
func NewClient() (*Client, error) {
	host := os.Getenv("DOCKER_HOST")
	if host == "" {
		detected, err := detectDockerHost()
		if err != nil {
			return nil, err
		}
		host = detected
	}

	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create docker client for host %q: %w", host, err)
	}
	return &Client{inner: c}, nil
}

// detectDockerHost probes the known socket locations for the current
// platform. Existence is checked rather than connectivity; Ping owns the
// reachability question.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux":
		return detectUnixSocket([]string{
			"/var/run/docker.sock",
		})

	case "darwin":
		// Docker Desktop may only create the per-user socket.
		paths := []string{"/var/run/docker.sock"}
		if home, err := os.UserHomeDir(); err == nil {
			paths = append(paths, home+"/.docker/run/docker.sock")
		}
		return detectUnixSocket(paths)

	case "windows":
		// Named pipes cannot be os.Stat'ed; a brief dial is the probe.
		pipePath := `//./pipe/docker_engine`
		conn, err := net.DialTimeout("pipe", pipePath, 1*time.Second)
		if err != nil {
			return "", fmt.Errorf("docker named pipe not found at %s: %w", pipePath, err)
		}
		conn.Close()
		return "npipe://" + pipePath, nil

	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectUnixSocket returns the host URI for the first existing socket
// path, in preference order.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("docker socket not found at any of %v", paths)
}

// Ping verifies the daemon is reachable within defaultPingTimeout.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return fmt.Errorf("docker daemon is not responding: %w", err)
	}
	return nil
}

// Close releases the client's resources. Safe to call more than once.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}
