package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/feed"
)

const timeLayout = "2006-01-02 15:04"

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > data.MaxRating {
		rating = data.MaxRating
	}
	return strings.Repeat("*", rating) + strings.Repeat(".", data.MaxRating-rating)
}

// printGroups writes one block per title with its member reviews, newest first.
func printGroups(w io.Writer, groups []feed.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No reviews found.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s %.1f (%d %s)\n", g.Title, stars(int(g.AverageRating+0.5)), g.AverageRating, g.ReviewCount, plural(g.ReviewCount, "review", "reviews"))
		if len(g.Tags) > 0 {
			fmt.Fprintf(w, "  tags: %s\n", strings.Join(g.Tags, ", "))
		}
		if g.PurchaseLink != "" {
			fmt.Fprintf(w, "  buy:  %s\n", g.PurchaseLink)
		}
		for _, r := range g.Reviews {
			fmt.Fprintf(w, "  #%d %s %s by %s: %s\n", r.ID, stars(r.Rating), r.CreatedAt.Format(timeLayout), r.User.Username, r.Caption)
		}
	}
}

// printReviews writes a table of reviews.
func printReviews(w io.Writer, reviews []*data.Review) error {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews found.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tRATING\tTAGS\tCREATED")
	for _, r := range reviews {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.ID, r.Title, stars(r.Rating), strings.Join(r.Tags, ","), r.CreatedAt.Format(timeLayout))
	}
	return tw.Flush()
}

func printReview(w io.Writer, r *data.Review) {
	fmt.Fprintf(w, "#%d %s %s\n", r.ID, r.Title, stars(r.Rating))
	fmt.Fprintf(w, "  %s\n", r.Caption)
	if len(r.Tags) > 0 {
		fmt.Fprintf(w, "  tags: %s\n", strings.Join(r.Tags, ", "))
	}
	if r.Image != nil {
		fmt.Fprintf(w, "  image: %s\n", *r.Image)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
