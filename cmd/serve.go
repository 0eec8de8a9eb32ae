package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jjenkins/programselect/internal/handlers"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var port string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the program selection web server",
	Long:  `Start the web server that serves the selection page and its JSON endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		// Flag wins over config when given explicitly
		if cmd.Flags().Changed("port") {
			a.cfg.Server.Port = port
		}

		app := fiber.New(fiber.Config{
			AppName: "Program Selection",
		})

		app.Use(requestid.New(requestid.Config{
			Generator: uuid.NewString,
		}))
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		}))

		// Routes
		app.Get("/program-data", handlers.ProgramsHandler(a.workflow, a.logger))
		app.Get("/student-info", handlers.StudentInfoHandler(a.workflow, a.logger))
		app.Get("/input-data", handlers.InputDataHandler(a.workflow, a.logger))
		app.Post("/submit-data", handlers.SubmitHandler(a.workflow, a.logger))

		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.SendString("ok")
		})
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		if dir := a.cfg.Server.StaticDir; dir != "" {
			if info, err := os.Stat(dir); err == nil && info.IsDir() {
				app.Static("/", dir)
			} else {
				a.logger.Warn("static directory not found, serving API only", zap.String("dir", dir))
			}
		}

		go func() {
			<-ctx.Done()
			a.logger.Info("shutting down server")
			_ = app.Shutdown()
		}()

		a.logger.Info("starting server", zap.String("port", a.cfg.Server.Port))
		return app.Listen(":" + a.cfg.Server.Port)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&port, "port", "p", "3000", "Port to run the server on (overrides server.port)")
}
