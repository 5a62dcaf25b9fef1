package domain

// ProcessState is the lifecycle state of a native worker subprocess:
// spawning -> ready -> busy/idle (repeatable) -> dead.
type ProcessState string

const (
	ProcessSpawning ProcessState = "spawning"
	ProcessReady    ProcessState = "ready"
	ProcessBusy     ProcessState = "busy"
	ProcessIdle     ProcessState = "idle"
	ProcessDead     ProcessState = "dead"
)
