package data

import (
	"github.com/julianstephens/lifelog/internal/cli"
)

type ClearCmd struct {
	Yes bool `short:"y" help:"Skip the confirmation prompt."`
}

func (c *ClearCmd) Run(ctx *cli.Context) error {
	ok, err := cli.Confirm(
		"Delete all local data?",
		"Removes every expense, mood, habit, habit entry, plan entry and preference from this device. The remote mirror is not touched.",
		c.Yes,
	)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Println("Clear cancelled.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := ctx.Repo.ClearAll(); err != nil {
		return err
	}
	ctx.Println(cli.SuccessStyle.Render("All local data cleared."))
	return nil
}
