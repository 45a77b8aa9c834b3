// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jeranaias/gauss-tui/internal/config"
	"github.com/jeranaias/gauss-tui/internal/export"
	"github.com/jeranaias/gauss-tui/internal/storage"
	"github.com/jeranaias/gauss-tui/internal/util"
)

// defaultListLimit is the number of records "history list" shows.
const defaultListLimit = 20

// HandleHistory handles "gauss history".
func HandleHistory(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return NewCommandError("history", "open", "cannot open history database", err)
	}
	defer store.Close()

	return runHistory(context.Background(), store, os.Stdout, args, cfg)
}

func runHistory(ctx context.Context, store *storage.HistoryStore, out io.Writer, args Args, cfg *config.Config) error {
	p := NewArgParser(args.Raw, "confirm", "open", "json", "no-trace")

	switch p.Subcommand() {
	case "", "list", "ls":
		limit := defaultListLimit
		if p.HasFlag("limit") {
			n, err := ParseIntWithValidation(p.Flag("limit"), "limit")
			if err != nil {
				return NewUsageError("--limit", p.Flag("limit"), err.Error())
			}
			limit = n
		}
		return historyList(ctx, store, out, limit, args.JSON)

	case "show":
		rec, err := historyGet(ctx, store, p)
		if err != nil {
			return err
		}
		return historyShow(out, rec, cfg, args.JSON)

	case "export":
		rec, err := historyGet(ctx, store, p)
		if err != nil {
			return err
		}
		opts := export.DefaultOptions()
		opts.OutputDir = p.FlagOrDefault("out", ".")
		opts.OpenAfterExport = p.BoolFlag("open")
		opts.IncludeTrace = !p.BoolFlag("no-trace")
		opts.Decimals = cfg.Display.Decimals

		exp, err := export.ForFormat(p.FlagOrDefault("format", "md"), opts)
		if err != nil {
			return NewUsageErrorWithExample("--format", p.Flag("format"), "must be md or json", "--format json")
		}
		path, err := export.ExportToFile(rec, exp, opts)
		if err != nil {
			return NewCommandError("history", "export", "cannot write file", err)
		}
		fmt.Fprintf(out, "%s Exported to %s\n", RenderStatus(true), path)
		return nil

	case "delete", "rm":
		rec, err := historyGet(ctx, store, p)
		if err != nil {
			return err
		}
		if err := store.Delete(ctx, rec.ID); err != nil {
			return NewCommandError("history", "delete", "cannot delete record", err)
		}
		fmt.Fprintf(out, "%s Deleted %s\n", RenderStatus(true), rec.ShortID())
		return nil

	case "clear":
		if !p.BoolFlag("confirm") {
			return NewUsageErrorWithExample("history clear", "", "requires --confirm", "gauss history clear --confirm")
		}
		n, err := store.Clear(ctx)
		if err != nil {
			return NewCommandError("history", "clear", "cannot clear history", err)
		}
		fmt.Fprintf(out, "%s Removed %d solves\n", RenderStatus(true), n)
		return nil

	case "path":
		fmt.Fprintln(out, store.Path())
		return nil

	default:
		return NewUsageErrorWithExample("history subcommand", p.Subcommand(),
			"must be list, show, export, delete, clear or path", "gauss history list")
	}
}

func historyGet(ctx context.Context, store *storage.HistoryStore, p *ArgParser) (*storage.Record, error) {
	id := p.Positional(1)
	if id == "" {
		return nil, NewUsageErrorWithExample("id", "", "missing solve id", fmt.Sprintf("gauss history %s 1a2b3c4d", p.Subcommand()))
	}
	return store.Get(ctx, id)
}

func historyList(ctx context.Context, store *storage.HistoryStore, out io.Writer, limit int, jsonMode bool) error {
	recs, err := store.List(ctx, limit)
	if err != nil {
		return NewCommandError("history", "list", "cannot read history", err)
	}
	if jsonMode {
		if recs == nil {
			recs = []*storage.Record{}
		}
		return NewJSONResponse("history list", recs).Print(out)
	}
	if len(recs) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No saved solves"))
		return nil
	}

	fmt.Fprintf(out, "%s  %s  %s  %s  %s\n",
		util.PadRight("ID", 8), util.PadRight("DATE", 16), util.PadRight("SIZE", 5),
		util.PadRight("STATUS", 6), "RESULT")
	for _, rec := range recs {
		status := SuccessStyle.Render(util.PadRight("ok", 6))
		summary := strings.Join(rec.SolutionLines(2), ", ")
		if !rec.OK() {
			status = ErrorStyle.Render(util.PadRight("failed", 6))
			summary = rec.Error
		}
		fmt.Fprintf(out, "%s  %s  %s  %s  %s\n",
			util.PadRight(rec.ShortID(), 8),
			rec.CreatedAt.Local().Format("2006-01-02 15:04"),
			util.PadRight(fmt.Sprintf("%dx%d", rec.Size, rec.Size), 5),
			status,
			util.TruncateWidth(summary, 60))
	}
	return nil
}

func historyShow(out io.Writer, rec *storage.Record, cfg *config.Config, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("history show", rec).Print(out)
	}

	opts := export.DefaultOptions()
	opts.IncludeMetadata = false
	opts.Decimals = cfg.Display.Decimals
	md, err := export.NewMarkdownExporter(opts).Export(rec)
	if err != nil {
		return NewCommandError("history", "show", "cannot render record", err)
	}
	if ColorsEnabled() && isTerminalWriter(out) {
		fmt.Fprint(out, export.RenderTerminal(string(md), GetTerminalWidth()))
		return nil
	}
	_, err = out.Write(md)
	return err
}
