package commands

import (
	"context"
	"fmt"

	"git.home.luguber.info/inful/tfdriver/internal/config"
	"git.home.luguber.info/inful/tfdriver/internal/journal"
)

// HistoryCmd lists recorded invocations from the journal database.
type HistoryCmd struct {
	Limit   int    `short:"n" default:"20" help:"Maximum number of entries"`
	Command string `help:"Filter by terraform command name"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if cfg.Daemon.JournalPath == "" {
		return fmt.Errorf("no journal configured (set daemon.journal_path)")
	}

	jrnl, err := journal.Open(cfg.Daemon.JournalPath)
	if err != nil {
		return err
	}
	defer jrnl.Close()

	ctx := context.Background()
	var runs []journal.Run
	if h.Command != "" {
		runs, err = jrnl.ByCommand(ctx, h.Command, h.Limit)
	} else {
		runs, err = jrnl.Recent(ctx, h.Limit)
	}
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No recorded invocations.")
		return nil
	}
	for _, r := range runs {
		status := "ok"
		if !r.Success {
			status = fmt.Sprintf("exit %d", r.ExitCode)
		}
		fmt.Printf("%s  %-10s %-8s %6dms  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Command, status, r.Duration.Milliseconds(), r.Args)
	}
	return nil
}
