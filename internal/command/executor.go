package command

import (
	"errors"
	"fmt"

	"semaphore"
	"semaphore/internal/network"
	"semaphore/internal/storage"

	"go.uber.org/zap"
)

type PreProcessor interface {
	CleanQuery(queryString string) string
	ParseQuery(queryString string) (Query, error)
}

// Executor turns raw requests into operations on the store a session was
// granted access to. The sessions resource is only consulted for the
// STATUS diagnostics.
type Executor struct {
	logger       *zap.Logger
	preProcessor PreProcessor
	sessions     *semaphore.Resource[storage.Store]
}

func NewExecutor(
	logger *zap.Logger,
	preProcessor PreProcessor,
	sessions *semaphore.Resource[storage.Store],
) (*Executor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if sessions == nil {
		return nil, errors.New("sessions resource cannot be nil")
	}

	return &Executor{
		logger:       logger,
		preProcessor: preProcessor,
		sessions:     sessions,
	}, nil
}

func (e *Executor) Execute(store storage.Store, query []byte) ([]byte, error) {
	queryString := e.preProcessor.CleanQuery(string(query))

	parsed, err := e.preProcessor.ParseQuery(queryString)
	if err != nil {
		return []byte(network.CannotParseQuery), err
	}

	e.logger.Debug("executing command",
		zap.Int8("command", int8(parsed.CommandId)),
		zap.Int("args", len(parsed.Args)),
	)

	args := parsed.Args

	switch parsed.CommandId {
	case SetCommandId:
		store.Set(args[0], args[1])
		return []byte(network.SuccessCommand), nil
	case GetCommandId:
		return []byte(fmt.Sprintf(network.GetResult, store.Get(args[0]))), nil
	case DelCommandId:
		store.Del(args[0])
		return []byte(network.SuccessCommand), nil
	case StatusCommandId:
		status := fmt.Sprintf(network.StatusResult, store.Len(), e.sessions.Count(), e.sessions.Capacity())
		return []byte(status), nil
	default:
		return []byte(fmt.Sprintf(network.UnknownCommand, parsed.CommandId)), errors.New("unknown command id")
	}
}
