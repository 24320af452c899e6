package provisioning

import (
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
)

// RunPhases executes all provisioning phases sequentially.
func RunPhases(ctx *Context, phases ...Phase) error {
	log := clog.FromContext(ctx)
	start := time.Now()

	for i, phase := range phases {
		phaseStart := time.Now()
		log.Info("phase starting", "phase", phase.Name(), "step", fmt.Sprintf("%d/%d", i+1, len(phases)))

		if err := phase.Provision(ctx); err != nil {
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		log.Info("phase completed", "phase", phase.Name(), "took", time.Since(phaseStart).Round(time.Millisecond))
	}

	log.Info("provisioning completed", "took", time.Since(start).Round(time.Millisecond))
	return nil
}
