package ecs

// Config holds global, build-wide configuration for the runtime.
var Config config = config{}

type config struct {
	// Debug gates the debug-only checks: entity liveness and duplicate
	// presence in Pool.Add, the presence checks of Pool.Transfer/Clone/Swap,
	// the leaked-entity scan after lifecycle hooks, filter bookkeeping
	// assertions, and the debug event listeners. Release builds should
	// leave this false; those checks are then skipped entirely, not merely
	// silenced. Pool registration, mask validity, Pool.Get presence and
	// unknown-group checks run regardless of this flag.
	Debug bool
}

// SetDebug toggles debug-only precondition checking.
func (c *config) SetDebug(on bool) {
	c.Debug = on
}
