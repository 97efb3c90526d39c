package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/emzola/bookworm/clients"
	"github.com/emzola/bookworm/feed"
	"github.com/emzola/bookworm/internal/jsonlog"
	"github.com/spf13/cobra"
)

const requestTimeout = 15 * time.Second

// app is the state shared by every command.
type app struct {
	settingsPath string
	server       string
	logLevel     string
	settings     settings
	logger       *jsonlog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "bookworm",
		Short:         "Read and write book reviews",
		Long:          `Browse the Bookworm review feed grouped by title, and post, edit or delete your own reviews.`,
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.settingsPath, "config", "", "settings file (default ~/.bookworm/config.yaml)")
	root.PersistentFlags().StringVar(&a.server, "server", "", "API base URL, overriding the settings file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "error", "minimum level of diagnostics written to stderr")

	root.AddCommand(
		a.loginCmd(),
		a.browseCmd(),
		a.mineCmd(),
		a.postCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.checkCmd(),
		a.suggestCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	a.logger = jsonlog.New(cmd.ErrOrStderr(), jsonlog.ParseLevel(a.logLevel))
	if a.settingsPath == "" {
		path, err := defaultSettingsPath()
		if err != nil {
			return err
		}
		a.settingsPath = path
	}
	s, err := loadSettings(a.settingsPath)
	if err != nil {
		return err
	}
	if a.server != "" {
		s.Server = a.server
	}
	a.settings = s
	return nil
}

func (a *app) client() *feed.Client {
	return feed.NewClient(a.settings.Server, a.settings.Token, clients.NewHTTPClient(requestTimeout))
}

func (a *app) requireToken() error {
	if a.settings.Token == "" {
		return errors.New("not logged in: run 'bookworm login' first")
	}
	return nil
}

// describe renders err for the terminal, pointing at login when the API
// rejected the token.
func describe(err error) string {
	var apiErr *feed.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized &&
		strings.Contains(apiErr.Message, "authenticat") {
		return apiErr.Message + " (run 'bookworm login' to store a new token)"
	}
	return err.Error()
}
