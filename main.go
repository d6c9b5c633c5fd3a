package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/miniclay/miniclay-server/helpers"
	"github.com/miniclay/miniclay-server/pkg/config"
	"github.com/miniclay/miniclay-server/pkg/factory"
	"github.com/miniclay/miniclay-server/pkg/logging"
	"github.com/miniclay/miniclay-server/pkg/routers"
	"github.com/miniclay/miniclay-server/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

func main() {
	cli.VersionPrinter = func(c *cli.Command) {
		fmt.Printf("%s\n", c.Version)
	}

	app := &cli.Command{
		Name:        "miniclay-server",
		Usage:       "AI meeting assistant that joins, listens and replies",
		Description: "without option will start server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "Configuration file",
				DefaultText: "config.yaml",
				Value:       "config.yaml",
			},
		},
		Action:  startServer,
		Version: version.Version,
	}
	err := app.Run(context.Background(), os.Args)
	if err != nil {
		logrus.Fatalln(err)
	}
}

func startServer(ctx context.Context, c *cli.Command) error {
	appCnf, err := helpers.ReadYamlConfigFile(c.String("config"))
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger(&appCnf.LogSettings)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to setup logger")
	}
	appCnf.Logger = logger

	// set this config for global usage
	if _, err := config.New(appCnf); err != nil {
		logger.Fatalln(err)
	}

	application, err := factory.NewApplication(ctx, config.GetConfig())
	if err != nil {
		logger.Fatalln(err)
	}

	// boot up background services
	application.Boot()
	defer application.Shutdown()

	rt := routers.New(application.AppConfig, application.Controllers)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		sig := <-sigChan
		logger.Infoln("exit requested, shutting down", "signal", sig)
		_ = rt.Shutdown()
	}()

	err = rt.Listen(fmt.Sprintf(":%d", appCnf.Client.Port))
	if err != nil {
		logger.Fatalln(err)
	}
	return nil
}
