package mybadger

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// OpenDB opens the badger database in dir. An empty dir opens an in-memory database.
//
// Parameters: dir is the data directory; logger receives badger's own log output.
//
// Returns: *badger.DB, closed by the caller.
//
// Called from cmd/pipelinestore.
func OpenDB(dir string, logger log.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(badgerLogger{logger: log.With(logger, "component", "badger")})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cant open badger at '%s': %w", dir, err)
	}
	return db, nil
}

// badgerLogger routes badger's printf-style logging to go-kit levels.
type badgerLogger struct {
	logger log.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	level.Error(l.logger).Log("msg", fmt.Sprintf(format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	level.Warn(l.logger).Log("msg", fmt.Sprintf(format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	level.Info(l.logger).Log("msg", fmt.Sprintf(format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	level.Debug(l.logger).Log("msg", fmt.Sprintf(format, args...))
}
