package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/feed"
	"github.com/spf13/cobra"
)

const browseHelp = `Commands: more | refresh | search TEXT | tags A,B | quit`

// printer renders feed changes once live is set.
type printer struct {
	mu   sync.Mutex
	w    io.Writer
	live atomic.Bool
}

func (p *printer) FeedChanged(s feed.Snapshot) {
	if !p.live.Load() || s.State != feed.Idle {
		return
	}
	p.print(s)
}

func (p *printer) FeedFailed(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, "Error:", describe(err))
}

func (p *printer) print(s feed.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	printGroups(p.w, s.Groups)
	fmt.Fprintln(p.w)
	printFooter(p.w, s)
}

func (p *printer) note(format string, args ...interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format+"\n", args...)
}

func printFooter(w io.Writer, s feed.Snapshot) {
	filter := ""
	if s.Filter.Search != "" {
		filter += fmt.Sprintf(" search=%q", s.Filter.Search)
	}
	if len(s.Filter.Tags) > 0 {
		filter += " tags=" + strings.Join(s.Filter.Tags, ",")
	}
	more := "end of feed"
	if s.HasMore {
		more = "more available"
	}
	fmt.Fprintf(w, "-- %d %s in %d %s, page %d, %s%s --\n",
		len(s.Reviews), plural(len(s.Reviews), "review", "reviews"),
		len(s.Groups), plural(len(s.Groups), "title", "titles"),
		s.Page, more, filter)
}

func (a *app) browseCmd() *cobra.Command {
	var (
		search      string
		tags        string
		pages       int
		limit       int
		interactive bool
		debounce    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the review feed grouped by title",
		Long: `Fetches the review feed page by page and shows it grouped by title, with the
average rating and the union of tags of every title.

With --interactive, further input is read line by line: ` + browseHelp,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			if pages < 1 {
				return errors.New("--pages must be at least 1")
			}
			ctx := cmd.Context()
			out := &printer{w: cmd.OutOrStdout()}
			c := feed.NewController(a.client(), a.logger,
				feed.WithLimit(limit),
				feed.WithObserver(out),
				feed.WithFilter(feed.Filter{Search: search, Tags: data.SplitTags(tags)}),
			)
			if err := c.Mount(ctx); err != nil {
				return err
			}
			for i := 1; i < pages; i++ {
				err := c.LoadMore(ctx)
				if errors.Is(err, feed.ErrNoMore) {
					break
				}
				if err != nil {
					return err
				}
			}
			out.print(c.Snapshot())
			if !interactive {
				return nil
			}
			out.live.Store(true)
			out.note(browseHelp)
			return a.browseInput(cmd, c, out, debounce)
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only reviews whose title or caption contains this text")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags; reviews with any of them match")
	cmd.Flags().IntVar(&pages, "pages", 1, "number of pages to load")
	cmd.Flags().IntVar(&limit, "limit", data.DefaultLimit, "reviews per page")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "keep reading commands from stdin")
	cmd.Flags().DurationVar(&debounce, "debounce", feed.DefaultDebounce, "delay before search and tag input is applied")
	return cmd
}

func (a *app) browseInput(cmd *cobra.Command, c *feed.Controller, out *printer, debounce time.Duration) error {
	ctx := cmd.Context()
	in := feed.NewFilterInput(ctx, c, debounce)
	defer in.Stop()

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		verb, rest, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch strings.ToLower(verb) {
		case "":
		case "quit", "exit":
			return nil
		case "more":
			switch err := c.LoadMore(ctx); {
			case errors.Is(err, feed.ErrNoMore):
				out.note("No more reviews.")
			case errors.Is(err, feed.ErrBusy):
				out.note("Still loading, try again.")
			}
		case "refresh":
			if errors.Is(c.Refresh(ctx), feed.ErrBusy) {
				out.note("Still loading, try again.")
			}
		case "search":
			in.Search(rest)
		case "tags":
			in.Tags(rest)
		default:
			out.note(browseHelp)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}
