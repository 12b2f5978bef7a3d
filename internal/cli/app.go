// Package cli implements deskctl, the operator command line for OfficeDesk.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/client"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/localstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	defaultServer = "http://localhost:8080"
	envPrefix     = "DESKCTL"
	configName    = ".deskctl.yaml"
)

// Streams are the process's standard streams. Tests substitute buffers.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App is the state shared by every deskctl command.
type App struct {
	streams    Streams
	in         *bufio.Reader
	v          *viper.Viper
	configPath string
	now        func() time.Time

	// interactive reports whether prompts may be shown.
	interactive func() bool
}

func newApp(streams Streams) *App {
	return &App{
		streams:     streams,
		in:          bufio.NewReader(streams.In),
		v:           viper.New(),
		now:         time.Now,
		interactive: stdinIsTerminal,
	}
}

// NewRootCommand builds the deskctl command tree.
func NewRootCommand(streams Streams) *cobra.Command {
	return newApp(streams).rootCommand()
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "deskctl",
		Short:         "Operate the OfficeDesk appointment and birthday desk",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(cmd)
		},
	}
	root.SetIn(a.streams.In)
	root.SetOut(a.streams.Out)
	root.SetErr(a.streams.Err)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default ~/"+configName+")")
	pf.String("server", defaultServer, "OfficeDesk server URL")
	pf.String("token", "", "session token (set by login)")
	pf.String("org", "", "organisation id sent as X-Org-ID")
	pf.String("local-store", "", "directory of the offline birthday store (default ~/.deskctl)")

	for _, key := range []string{"server", "token", "org", "local-store"} {
		_ = a.v.BindPFlag(key, pf.Lookup(key))
	}

	root.AddCommand(
		a.loginCommand(),
		a.appointmentsCommand(),
		a.birthdaysCommand(),
	)
	return root
}

// loadConfig applies flags > DESKCTL_* environment > config file.
func (a *App) loadConfig(cmd *cobra.Command) error {
	a.configPath, _ = cmd.Flags().GetString("config")
	if a.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("locate home directory: %w", err)
		}
		a.configPath = filepath.Join(home, configName)
	}

	a.v.SetConfigFile(a.configPath)
	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix(envPrefix)
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read config %s: %w", a.configPath, err)
		}
	}
	return nil
}

func (a *App) saveConfig() error {
	if err := os.MkdirAll(filepath.Dir(a.configPath), 0o700); err != nil {
		return err
	}
	return a.v.WriteConfigAs(a.configPath)
}

func (a *App) api() *client.Client {
	return client.New(a.v.GetString("server"),
		client.WithToken(a.v.GetString("token")),
		client.WithOrg(a.v.GetString("org")),
	)
}

func (a *App) localStore() (*localstore.Store, error) {
	dir := a.v.GetString("local-store")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		dir = filepath.Join(home, ".deskctl")
	}
	return localstore.Open(dir, localstore.DefaultKey)
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.streams.Out, format, args...)
}
