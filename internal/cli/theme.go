package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/paths"
	"github.com/mesh-intelligence/cellar/internal/theme"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

var errThemeNotFound = errors.New("theme not found")

func newThemeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "List and select UI themes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List installed themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runThemeList(cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "use <id>",
		Short: "Select the active theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runThemeUse(cmd, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show [id]",
		Short: "Show a theme (default: the active one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return a.runThemeShow(cmd, id)
		},
	})
	return cmd
}

// themes loads the registry and restores the remembered selection.
func (a *app) themes() (*theme.Manager, theme.CookieJar) {
	jar := theme.FileJar{Path: paths.PreferencesFile(a.configDir)}
	m := theme.NewManager(a.settings.Themes, theme.WithLogger(a.log))
	m.Initialize(jar)
	return m, jar
}

func (a *app) runThemeList(cmd *cobra.Command) error {
	m, _ := a.themes()
	list := m.Themes()

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, list)
	}
	w := newTable(out)
	fmt.Fprintln(w, "ACTIVE\tID\tNAME\tVERSION")
	for _, s := range list {
		mark := ""
		if s.IsActive {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", mark, s.ID, s.Name, s.Version)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal: %d theme(s)\n", len(list))
	return nil
}

func (a *app) runThemeUse(cmd *cobra.Command, id string) error {
	m, jar := a.themes()
	if !m.SetActiveTheme(id) {
		return fmt.Errorf("%w: %s", errThemeNotFound, id)
	}
	if err := m.SaveThemeCookie(jar); err != nil {
		return sysError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Theme %s selected\n", m.ActiveID())
	return nil
}

func (a *app) runThemeShow(cmd *cobra.Command, id string) error {
	m, _ := a.themes()
	var t types.Theme
	if id == "" {
		t = m.Active()
	} else {
		var ok bool
		if t, ok = m.Theme(id); !ok {
			return fmt.Errorf("%w: %s", errThemeNotFound, id)
		}
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, t)
	}
	w := newTable(out)
	fmt.Fprintf(w, "ID:\t%s\n", t.ID)
	fmt.Fprintf(w, "Name:\t%s\n", t.Name)
	fmt.Fprintf(w, "Version:\t%s\n", t.Version)
	if t.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", t.Description)
	}
	fmt.Fprintf(w, "Path:\t%s\n", t.FsPath)
	fmt.Fprintf(w, "URL:\t%s\n", t.URLPath)
	fmt.Fprintf(w, "Default:\t%t\n", t.ID == m.Default())
	return w.Flush()
}
