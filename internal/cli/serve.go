package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snaptic/go-snaptic/internal/api"
)

var (
	servePort  string
	serveHost  string
	corsOrigin string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start a REST server over the local cache:
- GET  /api/v1/notes    (filterable note list)
- GET  /api/v1/notes/:id
- POST /api/v1/search   (keyword search)
- GET  /api/v1/tags
- GET  /api/v1/stats
- GET  /api/v1/health

The server runs on HTTP (no authentication required for now).`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (overrides config file)")
	serveCmd.Flags().StringVarP(&serveHost, "host", "H", "", "host to bind to (overrides config file)")
	serveCmd.Flags().StringVarP(&corsOrigin, "cors-origin", "c", "", "CORS origin to allow (overrides config file, use '*' for all origins)")
}

func runServe(cmd *cobra.Command, args []string) error {
	host := cfg.Server.Host
	if serveHost != "" {
		host = serveHost
	}
	port := fmt.Sprintf("%d", cfg.Server.Port)
	if servePort != "" {
		port = servePort
	}
	origin := cfg.Server.CORSOrigin
	if corsOrigin != "" {
		origin = corsOrigin
	}

	addr := host + ":" + port
	fmt.Printf("%s🚀 Starting API server on %s%s\n", InfoStyle, addr, Reset)

	server := api.New(store, client, origin)
	return server.Run(addr)
}
