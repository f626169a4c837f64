// atelierd is a development stand-in for the Atelier portal backend.
//
// It serves the project endpoints the atelier client layer talks to,
// backed by an in-memory table. Nothing survives a restart.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/atelier-works/atelier/cmd/atelierd/handlers"
	"github.com/atelier-works/atelier/cmd/atelierd/inmemory"
)

func main() {
	port := flag.Int("port", 8800, "port to listen on")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	flag.Parse()

	e := echo.New()
	e.HideBanner = true
	setLevel(e, *loglevel)
	e.Use(middleware.Logger())
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}

	repo := inmemory.New()

	{
		clientID := "clientId"
		projectID := "projectId"

		e.GET(
			fmt.Sprintf("/clients/:%s/projects", clientID),
			handlers.ListClientProjectsHandler(repo, clientID),
		)
		e.GET(
			fmt.Sprintf("/projects/client/:%s", clientID),
			handlers.ListProjectsByClientHandler(repo, clientID),
		)
		e.POST("/projects", handlers.CreateProjectHandler(repo))
		e.PUT(
			fmt.Sprintf("/projects/:%s", projectID),
			handlers.UpdateProjectHandler(repo, projectID),
		)
		e.DELETE(
			fmt.Sprintf("/projects/:%s", projectID),
			handlers.DeleteProjectHandler(repo, projectID),
		)
	}

	if err := e.Start(fmt.Sprintf(":%d", *port)); err != nil {
		log.Fatalf("atelierd stopped: %s", err)
	}
}

func setLevel(e *echo.Echo, level string) {
	switch level {
	case "debug":
		e.Logger.SetLevel(glog.DEBUG)
	case "info":
		e.Logger.SetLevel(glog.INFO)
	case "warn":
		e.Logger.SetLevel(glog.WARN)
	case "error":
		e.Logger.SetLevel(glog.ERROR)
	case "off":
		e.Logger.SetLevel(glog.OFF)
	default:
		e.Logger.SetLevel(glog.INFO)
		e.Logger.Warnf("unknown log level %q. falling back to info", level)
	}
}
