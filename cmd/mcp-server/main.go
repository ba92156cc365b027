// Command mcp-server exposes the todo service to automation clients
// over the Model Context Protocol (stdio transport). Authentication is
// a static API key supplied via MCP_API_KEY and resolved against the
// BoltDB keystore.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybertodo/backend/internal/config"
	pgInfra "github.com/cybertodo/backend/internal/infrastructure/postgres"
	"github.com/cybertodo/backend/internal/keystore"
	"github.com/cybertodo/backend/internal/mcpserver"
	"github.com/cybertodo/backend/pkg/logger"
	"github.com/cybertodo/backend/repository/postgres"
	profileUC "github.com/cybertodo/backend/usecase/profile"
	todoUC "github.com/cybertodo/backend/usecase/todo"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "mcp-server",
	Short: "CyberTODO MCP server",
	Long: `CyberTODO MCP server exposes todo management tools over the Model
Context Protocol for automation and LLM clients. Requests are authorized
by the API key in MCP_API_KEY.`,
	RunE:          runServer,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// stdout belongs to the stdio transport; all logging goes to stderr.
	zapLogger, err := logger.NewStderr(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		return err
	}
	defer zapLogger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := pgInfra.NewPool(ctx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Error("postgres connection failed", zap.Error(err))
		return err
	}
	defer pool.Close()

	keys, err := keystore.Open(cfg.Keystore.Path)
	if err != nil {
		zapLogger.Error("keystore open failed", zap.Error(err))
		return err
	}
	defer keys.Close()

	srv, err := mcpserver.New(&mcpserver.Options{
		Todos:    todoUC.New(postgres.NewTodoRepository(pool), zapLogger),
		Profiles: profileUC.New(postgres.NewUserRepository(pool), zapLogger),
		Keys:     keys,
		RawKey:   cfg.Keystore.APIKey,
		Logger:   zapLogger,
	})
	if err != nil {
		zapLogger.Error("failed to create MCP server", zap.Error(err))
		return err
	}

	zapLogger.Info("CyberTODO MCP server starting")
	if err := srv.Serve(ctx, mcp.NewStdioTransport()); err != nil && !errors.Is(err, context.Canceled) {
		zapLogger.Error("server error", zap.Error(err))
		return err
	}

	zapLogger.Info("CyberTODO MCP server stopped")
	return nil
}
