package main

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/data/dto"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Store the bearer token used for API calls",
		Long:  `Reads a bearer token issued by the Bookworm auth service and stores it in the settings file.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := readSecret(cmd, "Token: ")
			if err != nil {
				return fmt.Errorf("failed to read token: %w", err)
			}
			if token == "" {
				return errors.New("token must not be empty")
			}
			a.settings.Token = token
			if err := saveSettings(a.settingsPath, a.settings); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s\n", a.settingsPath)
			return nil
		},
	}
}

// readSecret reads one line from the command's input, without echo when the
// input is a terminal.
func readSecret(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.OutOrStdout(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (a *app) mineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own reviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			reviews, err := a.client().UserReviews(cmd.Context())
			if err != nil {
				return err
			}
			return printReviews(cmd.OutOrStdout(), reviews)
		},
	}
}

func (a *app) postCmd() *cobra.Command {
	var (
		input     dto.CreateReviewRequestBody
		rating    int
		tags      string
		imagePath string
	)
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Review a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			input.Rating = dto.StarRating(rating)
			input.Tags = data.SplitTags(tags)
			if imagePath != "" {
				uri, err := imageDataURI(imagePath)
				if err != nil {
					return err
				}
				input.Image = &uri
			}

			client := a.client()
			// The lookup spans every author; only a review of your own is rejected.
			exists, err := client.TitleExists(cmd.Context(), input.Title)
			if err != nil {
				return err
			}
			if exists {
				fmt.Fprintf(cmd.OutOrStdout(), "%q already has reviews; yours will be grouped with them.\n", input.Title)
			}
			review, err := client.CreateReview(cmd.Context(), input)
			if err != nil {
				return err
			}
			printReview(cmd.OutOrStdout(), review)
			return nil
		},
	}
	cmd.Flags().StringVar(&input.Title, "title", "", "book title")
	cmd.Flags().StringVar(&input.Caption, "caption", "", "what you thought of it")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&imagePath, "image", "", "path to a cover image (jpeg, png, webp or gif)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("caption")
	_ = cmd.MarkFlagRequired("rating")
	return cmd
}

// imageDataURI reads an image file into a base64 data URI.
func imageDataURI(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	mtype := mimetype.Detect(b)
	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(b), nil
}

func (a *app) editCmd() *cobra.Command {
	var (
		caption string
		rating  int
		tags    string
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the caption, rating or tags of one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var input dto.UpdateReviewRequestBody
			if cmd.Flags().Changed("caption") {
				input.Caption = &caption
			}
			if cmd.Flags().Changed("rating") {
				input.Rating = &rating
			}
			if cmd.Flags().Changed("tags") {
				t := data.SplitTags(tags)
				input.Tags = &t
			}
			if input.Empty() {
				return errors.New("nothing to change: pass --caption, --rating or --tags")
			}
			review, err := a.client().UpdateReview(cmd.Context(), id, input)
			if err != nil {
				return err
			}
			printReview(cmd.OutOrStdout(), review)
			return nil
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "new caption")
	cmd.Flags().IntVar(&rating, "rating", 0, "new rating from 1 to 5")
	cmd.Flags().StringVar(&tags, "tags", "", "new comma separated tags; empty clears them")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete one of your reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.client().DeleteReview(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Review %d deleted.\n", id)
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check TITLE",
		Short: "Check whether anyone has reviewed a title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args, " ")
			exists, err := a.client().TitleExists(cmd.Context(), title)
			if err != nil {
				return err
			}
			if exists {
				fmt.Fprintf(cmd.OutOrStdout(), "%q has been reviewed.\n", title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%q has no reviews yet.\n", title)
			}
			return nil
		},
	}
}

func (a *app) suggestCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest TEXT",
		Short: "Suggest reviewed titles containing TEXT",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireToken(); err != nil {
				return err
			}
			titles, err := a.client().Suggestions(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			for _, title := range titles {
				fmt.Fprintln(cmd.OutOrStdout(), title)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 5, "maximum number of titles")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid review id %q", s)
	}
	return id, nil
}
