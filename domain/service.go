package domain

import (
	"net"
	"strconv"
)

// Role is a named class of service instance.
type Role string

const (
	RoleSessionHandler Role = "sh"
	RolePipelineStore  Role = "db"
	RoleWebSocket      Role = "ws"
	RoleHTTP           Role = "http"
)

// ServiceRecord is one live instance in the registry. (Role, InstanceID) is unique.
// Owned and refreshed by the registering process; any watcher may read it.
type ServiceRecord struct {
	Role       Role   `json:"role"`
	InstanceID string `json:"instanceId"`
	Host       string `json:"host"`
	Port       int    `json:"port"`
}

// Address returns the record's host:port as a WorkerAddress.
func (r ServiceRecord) Address() WorkerAddress {
	return WorkerAddress(net.JoinHostPort(r.Host, strconv.Itoa(r.Port)))
}

// RegistryEventType is register or unregister.
type RegistryEventType string

const (
	RegistryEventRegister   RegistryEventType = "register"
	RegistryEventUnregister RegistryEventType = "unregister"
)

// RegistryEvent is one membership change derived by diffing two registry snapshots.
type RegistryEvent struct {
	Type   RegistryEventType
	Record ServiceRecord
}
