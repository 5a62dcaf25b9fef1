package domain

// InfoKind names a metadata query answered by the worker for a session.
type InfoKind string

const (
	InfoNumPoints InfoKind = "numPoints"
	InfoSchema    InfoKind = "schema"
	InfoSrs       InfoKind = "srs"
	InfoStats     InfoKind = "stats"
	InfoFills     InfoKind = "fills"
	InfoBounds    InfoKind = "bounds"
	InfoSerialize InfoKind = "serialize"
)

// InfoKinds lists every supported InfoKind.
var InfoKinds = []InfoKind{InfoNumPoints, InfoSchema, InfoSrs, InfoStats, InfoFills, InfoBounds, InfoSerialize}

// ReadQuery holds client query parameters of a read. They are opaque to the coordination layer
// and passed to the native engine as-is.
type ReadQuery map[string]any

// ReadTarget is the streaming bridge endpoint a worker pushes read data to.
type ReadTarget struct {
	Host string
	Port int
}

// ReadAck is the worker acknowledgement of a read. ReadID correlates cancellation.
type ReadAck struct {
	ReadID    int64
	NumPoints int64
	NumBytes  int64
	Message   string
}
