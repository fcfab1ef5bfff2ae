package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/lifelog/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Force reset by deleting the existing local store before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()

	if c.Force {
		if _, err := os.Stat(path); err == nil {
			ctx.PerformAutomaticBackup()
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized lifelog storage at: %s\n", path)
	return nil
}
