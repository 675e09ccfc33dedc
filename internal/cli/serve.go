package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pairtask/pairtask/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bundled sync server",
	Long: `Run the workspace's sync server: the REST task store both members'
clients talk to. When redis is configured, every mutation publishes a
change event so connected clients refresh immediately.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(Cfg.Serve.AllowedEmails) == 0 {
			return fmt.Errorf("serve.allowed_emails must list the workspace members")
		}

		logger := log.New()
		logger.SetFormatter(&log.JSONFormatter{})

		var pub server.Publisher
		if Cfg.RedisAddr != "" {
			rc := redis.NewClient(&redis.Options{Addr: Cfg.RedisAddr})
			defer rc.Close()
			pub = server.NewRedisPublisher(rc, Cfg.RedisChannel)
		} else {
			logger.Warn("redis.addr not configured, clients will not receive change notifications")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(Cfg.Serve.AllowedEmails, pub, logger)
		return srv.Run(ctx, Cfg.Serve.Listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
