package data

import (
	"os"
	"path/filepath"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/export"
)

type ExportCmd struct {
	Output string `short:"o" help:"Output file, or - for stdout (default: lifelog-export-<date>.<format> in the working directory)."`
	Format string `help:"Export format when writing to stdout or no extension is given." enum:"json,xlsx" default:"json"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	now := ctx.Clock()
	doc := export.Build(rctx, ctx.Repo, now)
	format := export.Format(c.Format)

	if c.Output == "-" {
		out := ctx.Out
		if out == nil {
			out = os.Stdout
		}
		return export.Write(out, doc, format)
	}

	path := c.Output
	switch {
	case path == "":
		path = export.DefaultFileName(now, format)
	case filepath.Ext(path) == "":
		path += "." + string(format)
	}

	if err := export.WriteFile(path, doc); err != nil {
		return err
	}
	ctx.Printf("Exported %d expenses, %d moods, %d habits, %d habit entries and %d plan entries to %s\n",
		len(doc.Expenses), len(doc.Moods), len(doc.Habits), len(doc.HabitEntries), len(doc.DailyPlans), path)
	return nil
}
