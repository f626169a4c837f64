package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/youta-t/flarc"

	"github.com/atelier-works/atelier/cmd/atelier/subcommands/common"
	sublogin "github.com/atelier-works/atelier/cmd/atelier/subcommands/login"
	"github.com/atelier-works/atelier/cmd/atelier/subcommands/logger"
	sublogout "github.com/atelier-works/atelier/cmd/atelier/subcommands/logout"
	subproj "github.com/atelier-works/atelier/cmd/atelier/subcommands/projects"
	subver "github.com/atelier-works/atelier/cmd/atelier/subcommands/version"
	subwhoami "github.com/atelier-works/atelier/cmd/atelier/subcommands/whoami"
	"github.com/atelier-works/atelier/pkg/utils/try"
)

func main() {
	name := path.Base(os.Args[0])
	logger := logger.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill,
	)
	defer cancel()

	cf := try.To(common.Flags(".")).OrFatal(logger)
	login := try.To(sublogin.New()).OrFatal(logger)
	logout := try.To(sublogout.New()).OrFatal(logger)
	whoami := try.To(subwhoami.New()).OrFatal(logger)
	projects := try.To(subproj.New()).OrFatal(logger)
	version := try.To(subver.New()).OrFatal(logger)

	atelier := try.To(
		flarc.NewCommandGroup(
			"Atelier Commandline interface",
			cf,
			flarc.WithSubcommand("login", login),
			flarc.WithSubcommand("logout", logout),
			flarc.WithSubcommand("whoami", whoami),
			flarc.WithSubcommand("projects", projects),
			flarc.WithSubcommand("version", version),
		),
	).OrFatal(logger)

	os.Exit(flarc.Run(ctx, atelier, flarc.WithHelp(true)))
}
