package routers

import (
	"io"
	"runtime"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	rr "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/controllers"
	"github.com/miniclay/miniclay-server/pkg/factory"
	"github.com/miniclay/miniclay-server/version"
)

// router is a struct to hold the dependencies for setting up routes,
// allowing us to break down the monolithic New() function into smaller,
// more manageable methods.
type router struct {
	app  *fiber.App
	ctrl *factory.ApplicationControllers
}

func New(appConfig *config.AppConfig, ctrl *factory.ApplicationControllers) *fiber.App {
	cnf := fiber.Config{
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		BodyLimit:   appConfig.UploadFileSettings.MaxSize,
		AppName:     "miniclay version: " + version.Version + " runtime: " + runtime.Version(),
	}

	if appConfig.Client.ProxyHeader != "" {
		cnf.ProxyHeader = appConfig.Client.ProxyHeader
	}

	app := fiber.New(cnf)

	app.Use(logger.New(logger.Config{
		Done: func(c *fiber.Ctx, logString []byte) {
			appConfig.Logger.Debugln(string(logString))
		},
		Format: "${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}",
		Output: io.Discard,
	}))

	if appConfig.Client.PrometheusConf.Enable {
		prometheus := fiberprometheus.New("miniclay")
		prometheus.RegisterAt(app, appConfig.Client.PrometheusConf.MetricsPath)
		app.Use(prometheus.Middleware)
	}

	app.Use(rr.New())
	app.Use(cors.New(cors.Config{
		AllowMethods: "POST,GET,OPTIONS",
	}))

	if appConfig.Client.Path != "" {
		app.Static("/assets", appConfig.Client.Path+"/assets")
	}

	r := &router{
		app:  app,
		ctrl: ctrl,
	}

	r.registerBaseRoutes()
	r.registerMeetingRoutes()
	r.registerWebsocketRoutes()

	// This MUST be the last middleware to be registered.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).SendString("not found")
	})

	return app
}

func (r *router) registerBaseRoutes() {
	r.app.Get("/healthCheck", controllers.HandleHealthCheck)
}

func (r *router) registerMeetingRoutes() {
	r.app.Post("/join-meeting", r.ctrl.MeetingController.HandleJoinMeeting)
	r.app.Get("/meeting-status/:sessionId", r.ctrl.MeetingController.HandleMeetingStatus)
	r.app.Post("/leave-meeting/:sessionId", r.ctrl.MeetingController.HandleLeaveMeeting)
	r.app.Post("/process-audio/:sessionId", r.ctrl.AudioController.HandleProcessAudio)
}

func (r *router) registerWebsocketRoutes() {
	r.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.app.Get("/ws", websocket.New(r.ctrl.WebsocketController.HandleWebSocket()))
}
