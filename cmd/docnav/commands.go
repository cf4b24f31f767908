package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/docnav/internal/debug"
	"github.com/standardbeagle/docnav/internal/display"
	"github.com/standardbeagle/docnav/internal/mcp"
	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
	"github.com/standardbeagle/docnav/internal/view"
)

func withApp(c *cli.Context, fn func(ctx context.Context, a *app) error) error {
	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newAppFromContext(ctx, c)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func writeJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// titledPath resolves path so its elements carry titles and icons
func titledPath(ctx context.Context, a *app, path types.Path) (types.Path, error) {
	if path.IsEmpty() {
		return path, nil
	}
	item, err := a.lib.Resolve(ctx, path)
	if err != nil {
		return path, err
	}
	if computed, err := tree.ComputePath(a.lib.Session(), item); err == nil {
		return computed, nil
	}
	return path, nil
}

func treeCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app) error {
		path, err := titledPath(ctx, a, types.ParsePath(c.Args().First()))
		if err != nil {
			return err
		}
		t, err := display.BuildTree(ctx, a.lib, path, c.Int("depth"))
		if err != nil {
			return err
		}
		if c.Bool("json") {
			return writeJSON(c, t)
		}

		format := "text"
		if c.Bool("compact") {
			format = "compact"
		}
		formatter := display.NewTreeFormatter(display.FormatterOptions{
			Format:   format,
			ShowIDs:  c.Bool("ids"),
			MaxDepth: c.Int("depth"),
		})
		_, err = fmt.Fprint(c.App.Writer, formatter.Format(t))
		return err
	})
}

func listCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app) error {
		path, err := titledPath(ctx, a, types.ParsePath(c.Args().First()))
		if err != nil {
			return err
		}
		coll, err := a.lib.Populate(ctx, path)
		if err != nil {
			return err
		}
		nodes := make([]*display.Node, 0, coll.Len())
		for _, it := range coll.Items() {
			nodes = append(nodes, display.NodeOf(it, 1))
		}
		if c.Bool("json") {
			return writeJSON(c, nodes)
		}

		title := display.RootTitle
		if last, ok := path.Last(); ok {
			title = last.Title
		}
		formatter := display.NewTreeFormatter(display.FormatterOptions{ShowIDs: true})
		_, err = fmt.Fprint(c.App.Writer, formatter.FormatNodes(title, nodes))
		return err
	})
}

func lookupCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: docnav lookup <id>")
	}
	return withApp(c, func(ctx context.Context, a *app) error {
		item, path, err := a.lib.Locate(ctx, types.Identifier(c.Args().First()))
		if err != nil {
			return err
		}
		if err := a.lib.ExtendItem(ctx, item); err != nil {
			return err
		}

		if c.Bool("json") {
			node := display.NodeOf(item, 0)
			out := map[string]interface{}{"item": node, "metadata": item.MetadataSnapshot()}
			if !path.IsEmpty() {
				out["path"] = path
			}
			return writeJSON(c, out)
		}

		nav := view.NewNavigator(ctx, a.lib)
		defer nav.Close()
		tv := view.NewTextView(nil, display.FormatterOptions{ShowIDs: true})
		nav.Attach(tv)
		nav.SetCurrent(item)

		var sb strings.Builder
		sb.WriteString(tv.Render())
		if p := nav.Path(); !p.IsEmpty() {
			fmt.Fprintf(&sb, "\npath: %s\n", p)
		}
		for _, key := range item.MetadataKeys() {
			if key == types.MetaKind {
				continue
			}
			v, _ := item.Metadata(key)
			fmt.Fprintf(&sb, "%s: %s\n", key, v)
		}
		_, err = fmt.Fprint(c.App.Writer, sb.String())
		return err
	})
}

func searchCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.New("usage: docnav search <query>")
	}
	return withApp(c, func(ctx context.Context, a *app) error {
		query := strings.Join(c.Args().Slice(), " ")
		criteria := provider.SearchCriteria{Text: query, Limit: c.Int("max")}
		if criteria.Limit <= 0 {
			criteria.Limit = a.cfg.Search.MaxResults
		}
		for _, name := range c.StringSlice("variant") {
			v, err := types.ParseVariant(name)
			if err != nil {
				return err
			}
			criteria.Variants = append(criteria.Variants, v)
		}

		results, err := a.lib.Search(ctx, criteria)
		if err != nil {
			return err
		}
		nodes := make([]*display.Node, 0, results.Len())
		for _, it := range results.Items() {
			nodes = append(nodes, display.NodeOf(it, 1))
		}
		if c.Bool("json") {
			return writeJSON(c, nodes)
		}
		formatter := display.NewTreeFormatter(display.FormatterOptions{ShowIDs: true})
		_, err = fmt.Fprint(c.App.Writer, formatter.FormatNodes(fmt.Sprintf("%d results for '%s'", len(nodes), query), nodes))
		return err
	})
}

func languagesCommand(c *cli.Context) error {
	return withApp(c, func(ctx context.Context, a *app) error {
		langs := a.lib.SupportedLanguages()
		if c.Bool("json") {
			return writeJSON(c, langs)
		}
		for _, lang := range langs {
			if _, err := fmt.Fprintln(c.App.Writer, lang); err != nil {
				return err
			}
		}
		return nil
	})
}

func mcpCommand(c *cli.Context) error {
	// stdio carries the protocol
	debug.SetMCPMode(true)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newAppFromContext(ctx, c)
	if err != nil {
		return debug.Fatal("failed to load library: %v\n", err)
	}
	defer a.Close()

	server, err := mcp.NewServer(a.lib, mcp.WithMaxResults(a.cfg.Search.MaxResults))
	if err != nil {
		return debug.Fatal("failed to create MCP server: %v\n", err)
	}
	defer server.Close()

	debug.LogMCP("Starting MCP server with stdio transport...\n")
	if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return debug.Fatal("MCP server error: %v\n", err)
	}
	return nil
}
