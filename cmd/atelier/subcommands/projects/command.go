package projects

import (
	proj_create "github.com/atelier-works/atelier/cmd/atelier/subcommands/projects/create"
	proj_list "github.com/atelier-works/atelier/cmd/atelier/subcommands/projects/list"
	proj_rm "github.com/atelier-works/atelier/cmd/atelier/subcommands/projects/rm"
	proj_update "github.com/atelier-works/atelier/cmd/atelier/subcommands/projects/update"
	"github.com/youta-t/flarc"
)

func New() (flarc.Command, error) {

	list, err := proj_list.New()
	if err != nil {
		return nil, err
	}
	create, err := proj_create.New()
	if err != nil {
		return nil, err
	}
	update, err := proj_update.New()
	if err != nil {
		return nil, err
	}
	rm, err := proj_rm.New()
	if err != nil {
		return nil, err
	}

	return flarc.NewCommandGroup(
		"Manipulate Atelier Projects.",
		struct{}{},
		flarc.WithSubcommand("list", list),
		flarc.WithSubcommand("create", create),
		flarc.WithSubcommand("update", update),
		flarc.WithSubcommand("rm", rm),
	)
}
