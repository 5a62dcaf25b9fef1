package domain

import "time"

// WorkerAddress is the host:port of a session handler instance.
type WorkerAddress string

// PipelineID is the content-derived identifier of a stored pipeline definition.
type PipelineID string

// SessionID is the random opaque token of one client session.
type SessionID string

// AffinityBinding binds a session to the worker serving its pipeline.
type AffinityBinding struct {
	PipelineID  PipelineID
	Worker      WorkerAddress
	SessionID   SessionID
	LastTouched time.Time
}

// WorkerLoad is the number of live sessions a worker holds for one pipeline.
type WorkerLoad struct {
	Worker   WorkerAddress
	Sessions int64
}

// PipelineWorker is a (pipeline, worker) pair removed from the routing table, with the sessions it held.
type PipelineWorker struct {
	PipelineID PipelineID
	Worker     WorkerAddress
	Sessions   []SessionID
}
