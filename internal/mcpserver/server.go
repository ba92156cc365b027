// Package mcpserver exposes the todo service to automation clients as a
// Model Context Protocol server over stdio. Authorization is a static
// API key resolved against the injected keystore at construction time.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/cybertodo/backend/domain"
	"github.com/cybertodo/backend/internal/keystore"
	profileUC "github.com/cybertodo/backend/usecase/profile"
	todoUC "github.com/cybertodo/backend/usecase/todo"
)

const (
	serverName    = "cybertodo-mcp"
	serverVersion = "2.0.0"
)

// Server wraps the MCP server with the validated key identity.
type Server struct {
	mcpServer *mcp.Server
	key       *domain.APIKey
	logger    *zap.Logger
}

// Options configures the server instance. Keys is the persisted
// key-to-account mapping; it is always passed in explicitly so its
// lifecycle belongs to the process, not to this package.
type Options struct {
	Todos    *todoUC.UseCase
	Profiles *profileUC.UseCase
	Keys     *keystore.Store
	RawKey   string
	Logger   *zap.Logger
}

// New validates the API key against the keystore and registers the
// tool set. An unknown or revoked key fails construction, so an
// unauthenticated process never starts serving.
func New(opts *Options) (*Server, error) {
	if opts == nil || opts.Keys == nil {
		return nil, domain.ErrInvalidPayload
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	key, err := opts.Keys.Validate(opts.RawKey)
	if err != nil {
		return nil, err
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		key:       key,
		logger:    logger,
	}
	s.registerTools(opts.Todos, opts.Profiles)

	logger.Info("API key accepted",
		zap.String("key_name", key.Name),
		zap.String("bound_user", key.UserID),
	)
	return s, nil
}

// Serve connects the MCP server to the transport and blocks until the
// session ends or the context is cancelled.
func (s *Server) Serve(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("starting MCP transport", zap.String("transport", fmt.Sprintf("%T", transport)))

	session, err := s.mcpServer.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect MCP server: %w", err)
	}

	sessionDone := make(chan error, 1)
	go func() {
		sessionDone <- session.Wait()
	}()

	select {
	case err := <-sessionDone:
		s.logger.Info("MCP session finished")
		return err
	case <-ctx.Done():
		s.logger.Info("MCP server shutting down")
		return ctx.Err()
	}
}
