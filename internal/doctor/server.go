package doctor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/nightdriver/ndsmon/internal/errors"
	"github.com/nightdriver/ndsmon/internal/fleet"
)

// Lister fetches the fleet snapshot. *api.Client satisfies it.
type Lister interface {
	ListCanvases(ctx context.Context) ([]fleet.Canvas, error)
}

// SlowResponse is the round trip above which the server check warns. The
// dashboard polls back to back, so a slow list call is a slow dashboard.
const SlowResponse = time.Second

// ServerCheck fetches one snapshot and reports how long it took.
type ServerCheck struct {
	Server string
	Client Lister
}

func (c *ServerCheck) Name() string     { return "server_reachable" }
func (c *ServerCheck) Category() string { return "SERVER" }

func (c *ServerCheck) Run(ctx context.Context) CheckResult {
	start := time.Now()
	canvases, err := c.Client.ListCanvases(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	if err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    errors.Message(err),
			Suggestion: "Check that the canvas server is running at " + c.Server,
		}
	}

	msg := fmt.Sprintf("%s answered in %s (%s)", c.Server, elapsed,
		countNoun(len(canvases), "canvas", "canvases"))
	if elapsed > SlowResponse {
		return CheckResult{
			Status:     StatusWarn,
			Message:    msg,
			Suggestion: "The server is slow to list canvases; the dashboard will lag",
		}
	}
	return CheckResult{Status: StatusPass, Message: msg}
}

// FleetCheck warns when features are disconnected.
type FleetCheck struct {
	Client Lister
}

func (c *FleetCheck) Name() string     { return "fleet_connected" }
func (c *FleetCheck) Category() string { return "SERVER" }

func (c *FleetCheck) Run(ctx context.Context) CheckResult {
	canvases, err := c.Client.ListCanvases(ctx)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: "Cannot check features: server unreachable",
		}
	}

	var total, connected int
	var offline []string
	for _, cv := range canvases {
		for _, f := range cv.Features {
			total++
			if f.IsConnected {
				connected++
				continue
			}
			offline = append(offline, fmt.Sprintf("%s/%s", cv.Name, f.FriendlyName))
		}
	}

	if total == 0 {
		return CheckResult{
			Status:  StatusWarn,
			Message: "No features configured",
		}
	}
	msg := fmt.Sprintf("%s of %s connected", humanize.Comma(int64(connected)),
		countNoun(total, "feature", "features"))
	if len(offline) == 0 {
		return CheckResult{Status: StatusPass, Message: msg}
	}
	return CheckResult{
		Status:     StatusWarn,
		Message:    msg,
		Suggestion: "Disconnected: " + listNames(offline, 5),
	}
}

// listNames joins up to max names and counts the rest.
func listNames(names []string, max int) string {
	if len(names) <= max {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(names[:max], ", "), len(names)-max)
}

func countNoun(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return humanize.Comma(int64(n)) + " " + many
}
