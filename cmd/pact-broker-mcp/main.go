package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/form3tech-oss/pact-broker-mcp/internal/app/broker"
	"github.com/form3tech-oss/pact-broker-mcp/internal/app/configuration"
	"github.com/form3tech-oss/pact-broker-mcp/internal/app/tools"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "pact-broker-mcp",
	Short:        "MCP server exposing a Pact Broker as callable tools",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the broker tools over stdio, or over HTTP when an address is configured",
	RunE:  runServe,
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pact-broker-mcp version %s\n", version))

	serveCmd.Flags().String("http", "", "Serve MCP over HTTP on this address instead of stdio (overrides SERVER_ADDRESS)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := configuration.NewFromEnv()
	if err != nil {
		return err
	}
	configureLogging(cfg)

	if address, _ := cmd.Flags().GetString("http"); address != "" {
		cfg.ServerAddress = address
	}

	s := newMCPServer(cfg)

	if cfg.ServerAddress == "" {
		// logrus writes to stderr, so stdout stays clean for the protocol.
		return server.ServeStdio(s)
	}

	log.Infof("serving MCP over HTTP on %s", cfg.ServerAddress)
	e := configuration.ServeMCP(cfg.ServerAddress, server.NewStreamableHTTPServer(s))

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(ctx)
}

func newMCPServer(cfg broker.Config) *server.MCPServer {
	s := server.NewMCPServer("pact-broker-mcp", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.Register(s, tools.NewDispatcher(cfg))
	return s
}

func configureLogging(cfg broker.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
