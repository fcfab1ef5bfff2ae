package data

import (
	"github.com/julianstephens/lifelog/internal/cli"
)

type PrefsCmd struct {
	Gender      *string `help:"Set the gender preference (empty to clear)."`
	WelcomeSeen *bool   `name:"welcome-seen" help:"Mark the welcome message as seen."`
}

func (c *PrefsCmd) Run(ctx *cli.Context) error {
	if c.Gender != nil {
		ctx.Repo.SetGender(*c.Gender)
	}
	if c.WelcomeSeen != nil {
		ctx.Repo.SetWelcomeSeen(*c.WelcomeSeen)
	}

	prefs := ctx.Repo.Preferences()
	gender := prefs.Gender
	if gender == "" {
		gender = cli.MutedStyle.Render("(not set)")
	}
	ctx.Printf("Gender:       %s\n", gender)
	ctx.Printf("Welcome seen: %t\n", prefs.WelcomeSeen)
	return nil
}
