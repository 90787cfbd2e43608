package network

import (
	"context"
	"errors"
	"net"
	"time"

	"go.uber.org/zap"

	"semaphore"
	"semaphore/internal/config"
	"semaphore/internal/storage"
)

type TCPServer struct {
	logger           *zap.Logger
	conf             *config.NetworkConfig
	sessions         *semaphore.Resource[storage.Store]
	requestHandler   func(storage.Store, []byte) ([]byte, error)
	requestBytesSize int
}

func NewTCPServer(
	logger *zap.Logger,
	conf *config.NetworkConfig,
	sessions *semaphore.Resource[storage.Store],
	requestHandler func(storage.Store, []byte) ([]byte, error),
) (*TCPServer, error) {
	if conf.MaxConnections <= 0 {
		return nil, errors.New("max_connections must be positive")
	}

	requestBytesSize, err := conf.ParseRequestSizeInBytes()
	if err != nil {
		return nil, err
	}

	return &TCPServer{
		logger:           logger,
		conf:             conf,
		sessions:         sessions,
		requestHandler:   requestHandler,
		requestBytesSize: requestBytesSize,
	}, nil
}

func (s *TCPServer) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.conf.Address)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		if err := listener.Close(); err != nil {
			s.logger.Error("failed to close listener", zap.Error(err))
		}
	}()

	s.logger.Info("listening on " + listener.Addr().String())

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Info("shutting down tcp server")
				return s.drain()
			}

			s.logger.Error("failed to accept connection", zap.Error(err))
			continue
		}

		session, err := s.sessions.TryAccess()
		if err != nil {
			s.reject(conn, err)
			continue
		}

		go s.handleConnection(ctx, conn, session)
	}
}

func (s *TCPServer) handleConnection(ctx context.Context, conn net.Conn, session *semaphore.ResourceGuard[storage.Store]) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("captured panic", zap.Any("panic", r))
		}

		if err := conn.Close(); err != nil {
			s.logger.Error("failed to close connection", zap.Error(err))
		}
		session.Release()
	}()

	request := make([]byte, s.requestBytesSize)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("closing tcp connection")
			return
		default:
			if s.conf.IdleTimeout > 0 {
				if err := conn.SetReadDeadline(time.Now().Add(s.conf.IdleTimeout)); err != nil {
					s.logger.Error("failed to set read deadline", zap.Error(err))
				}
			}
			count, err := conn.Read(request)
			if err != nil {
				s.logger.Error("failed to read request", zap.Error(err))
				return
			}

			response, err := s.requestHandler(session.Value(), request[:count])
			if err != nil {
				s.logger.Error("failed to handle request",
					zap.ByteString("request", request[:count]),
					zap.ByteString("response", response),
					zap.Error(err),
				)
			}

			s.response(conn, response)
		}
	}
}

// drain waits until every open session has released its slot, then
// extracts the shared store for the final report.
func (s *TCPServer) drain() error {
	store, ok := s.sessions.Shutdown()
	if !ok {
		return nil
	}

	s.logger.Info("all sessions drained", zap.Int("stored_keys", store.Len()))
	return nil
}

func (s *TCPServer) reject(conn net.Conn, reason error) {
	defer func() {
		if err := conn.Close(); err != nil {
			s.logger.Error("failed to close connection", zap.Error(err))
		}
	}()

	if errors.Is(reason, semaphore.ErrShutdown) {
		s.response(conn, []byte(ShuttingDown))
		return
	}

	s.logger.Warn("no free sessions", zap.Int("max_connections", s.conf.MaxConnections))
	s.response(conn, []byte(NoConnectionsAvailable))
}

func (s *TCPServer) response(conn net.Conn, response []byte) {
	if _, err := conn.Write(response); err != nil {
		s.logger.Error("failed to write response",
			zap.ByteString("response", response),
			zap.Error(err),
		)
	}
}
