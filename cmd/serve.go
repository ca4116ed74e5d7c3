package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"filelist-diff/core/loader"
	"filelist-diff/core/logger"
	"filelist-diff/core/middleware/auth"
	"filelist-diff/core/middleware/rayid"
	"filelist-diff/feature/runs"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the run history over HTTP",
	Long:  `Starts the HTTP server exposing recorded comparison runs (requires a configured database).`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		a.openHistory(cmd.Context())
		if a.store == nil {
			a.log.Warn("No run history configured, the runs API is disabled")
		}

		app := newServer(a)

		go func() {
			a.log.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			if err := app.Listen(a.cfg.Server.Address()); err != nil {
				a.log.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		a.log.Info("Shutting down server...")
		return app.Shutdown()
	},
}

// newServer builds the Fiber app with middleware and features.
func newServer(a *app) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           a.cfg.Server.ReadTimeout(),
	})

	// RayID first so every log line can be traced
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(a.log, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	app.Use(auth.New(auth.Config{ApiKey: a.cfg.Server.ApiKey, Skip: []string{"/health"}}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"history": a.store != nil,
		})
	})

	mgr := loader.NewManager(a.log)
	mgr.Register(runs.NewFeature(a.store, a.log))
	if _, err := mgr.LoadAll(app); err != nil {
		a.log.Fatal("Failed to load features", zap.Error(err))
	}
	return app
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
