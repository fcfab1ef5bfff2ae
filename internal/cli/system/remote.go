package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/lifelog/internal/cli"
	"github.com/julianstephens/lifelog/internal/config"
	"github.com/julianstephens/lifelog/internal/keyring"
	"github.com/julianstephens/lifelog/internal/storage/postgres"
	"github.com/julianstephens/lifelog/internal/storage/redis"
)

type RemoteCmd struct {
	Set    RemoteSetCmd    `cmd:"" help:"Store the remote mirror connection string in the OS keyring."`
	Get    RemoteGetCmd    `cmd:"" help:"Show the stored connection string (password masked)."`
	Delete RemoteDeleteCmd `cmd:"" help:"Remove the stored connection string."`
	Status RemoteStatusCmd `cmd:"" help:"Show keyring and mirror status."`
	Whoami RemoteWhoamiCmd `cmd:"" help:"Show the identity records are mirrored under."`
	Logout RemoteLogoutCmd `cmd:"" help:"Forget the cached identity and the stored credentials."`
}

type RemoteSetCmd struct {
	ConnectionString string `arg:"" help:"postgres://, postgresql://, host=... DSN, redis:// or rediss:// connection string."`
}

func (cmd *RemoteSetCmd) Run(ctx *cli.Context) error {
	kind, err := config.ValidateRemote(cmd.ConnectionString, true)
	if err != nil {
		return fmt.Errorf("invalid connection string: %w", err)
	}

	if _, err := config.ValidateRemote(cmd.ConnectionString, false); errors.Is(err, postgres.ErrEmbeddedCredentials) || errors.Is(err, redis.ErrEmbeddedCredentials) {
		ctx.Println(cli.WarningStyle.Render("Warning: connection string contains a password."))
		ctx.Println("   It will be stored as-is in the encrypted OS keyring.")
	}

	if err := keyring.SetRemote(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Session.Invalidate()

	ctx.Printf("✓ %s connection string stored in OS keyring\n", kind)
	ctx.Println("  lifelog will mirror records there unless --remote or LIFELOG_REMOTE is set")
	return nil
}

type RemoteGetCmd struct{}

func (cmd *RemoteGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetRemote()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'lifelog remote set' to store one")
		}
		return fmt.Errorf("failed to retrieve connection string from keyring: %w", err)
	}
	ctx.Println(keyring.Mask(connStr))
	return nil
}

type RemoteDeleteCmd struct{}

func (cmd *RemoteDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteRemote(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Session.Invalidate()
	ctx.Println("✓ Connection string deleted from OS keyring")
	return nil
}

type RemoteStatusCmd struct{}

func (cmd *RemoteStatusCmd) Run(ctx *cli.Context) error {
	if keyring.IsAvailable() {
		ctx.Println("✓ OS keyring is available")
	} else {
		ctx.Println(cli.DangerStyle.Render("✗ OS keyring is not available on this system"))
	}

	cfg := ctx.Config
	if cfg == nil || !cfg.HasRemote() {
		ctx.Println("ℹ No remote mirror configured; records are kept on this device only")
		return nil
	}
	ctx.Printf("Mirror:  %s (from %s)\n", cfg.RemoteKind, cfg.RemoteSource)
	ctx.Printf("Address: %s\n", keyring.Mask(cfg.Remote))

	if ctx.Session.Mirror() == nil {
		ctx.Println(cli.WarningStyle.Render("✗ Mirror unreachable; running local-only"))
		return nil
	}

	rctx, cancel := ctx.Timeout()
	defer cancel()
	if owner, ok := ctx.Session.CurrentOwner(rctx); ok {
		ctx.Printf("✓ Connected as %s\n", owner)
	} else {
		ctx.Println(cli.WarningStyle.Render("✗ Connected, but the mirror reported no identity"))
	}
	return nil
}

type RemoteWhoamiCmd struct{}

func (cmd *RemoteWhoamiCmd) Run(ctx *cli.Context) error {
	rctx, cancel := ctx.Timeout()
	defer cancel()

	owner, ok := ctx.Session.CurrentOwner(rctx)
	if !ok {
		return errors.New("not signed in to a remote mirror")
	}
	ctx.Println(owner)
	return nil
}

type RemoteLogoutCmd struct{}

func (cmd *RemoteLogoutCmd) Run(ctx *cli.Context) error {
	ctx.Session.Invalidate()

	if ctx.Config != nil && ctx.Config.RemoteSource == config.SourceKeyring {
		if err := keyring.DeleteRemote(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return err
		}
		ctx.Println("✓ Signed out and removed stored credentials")
		return nil
	}
	ctx.Println("✓ Signed out")
	return nil
}
