// containers.go implements the container enumeration consumed by the
// report component.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
)

// ContainerRecord is the flattened view of one container as it appears in
// a diagnostic report. It decouples report formatting from Docker SDK
// types.
type ContainerRecord struct {
	// ID is the full container identifier.
	ID string

	// Name is the container name without the API's leading slash.
	Name string

	// Image is the image reference the container was created from.
	Image string

	// State is the short daemon state string ("running", "exited", ...).
	State string

	// Status is the human-readable status line ("Up 2 hours", ...).
	Status string
}

// ListContainers enumerates every container on the host, including stopped
// ones — a diagnostic report cares about what exists, not just what runs.
func (c *Client) ListContainers(ctx context.Context) ([]ContainerRecord, error) {
	containers, err := c.inner.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	records := make([]ContainerRecord, 0, len(containers))
	for _, ctr := range containers {
		records = append(records, toRecord(ctr))
	}
	return records, nil
}

// toRecord maps one Docker API container summary to a report record.
// Pure function, no daemon access.
func toRecord(c types.Container) ContainerRecord {
	// The API reports names as a slice with a leading "/" artifact.
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return ContainerRecord{
		ID:     c.ID,
		Name:   name,
		Image:  c.Image,
		State:  c.State,
		Status: c.Status,
	}
}
