package main

import (
	"github.com/brizzai/tubenotes/internal/app"
	"github.com/brizzai/tubenotes/internal/config"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API with the MCP endpoint at /mcp",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			a := app.New(cfg)
			if err := a.Err(); err != nil {
				return err
			}
			a.Run()
			return nil
		},
	}
	cmd.Flags().String("mode", string(config.ServerModeHTTP), "Server mode: http or stdio")
	cmd.Flags().String("host", "localhost", "Host to listen on")
	cmd.Flags().Int("port", 8080, "Port to listen on")
	return cmd
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(c *config.Config) {
				c.Server.Mode = config.ServerModeSTDIO
				// stdout carries the protocol
				c.Logging.UseStderr = true
			})
			if err != nil {
				return err
			}
			a := app.New(cfg)
			if err := a.Err(); err != nil {
				return err
			}
			a.Run()
			return nil
		},
	}
}
