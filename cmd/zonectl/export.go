package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haukened/zonekeeper/internal/dns/choices"
	"github.com/haukened/zonekeeper/internal/dns/repos/zonefile"
)

func renderCmd(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render ZONE",
		Short: "Print the zone file of a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(func(app *Application) error {
				z, err := resolveZone(app, args[0])
				if err != nil {
					return err
				}
				text, err := app.renderer.Render(z.ID)
				if err != nil {
					return err
				}
				if output != "" {
					return os.WriteFile(output, []byte(text), 0o644)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), text)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func importCmd(s *session) *cobra.Command {
	var prune bool

	cmd := &cobra.Command{
		Use:   "import PATH...",
		Short: "Apply zone definition files (YAML, JSON or TOML) or directories of them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var defs []zonefile.Definition
			for _, path := range args {
				info, err := os.Stat(path)
				if err != nil {
					return err
				}
				if info.IsDir() {
					loaded, err := zonefile.LoadDir(path)
					if err != nil {
						return err
					}
					defs = append(defs, loaded...)
					continue
				}
				def, err := zonefile.Load(path)
				if err != nil {
					return err
				}
				defs = append(defs, def)
			}

			return s.run(func(app *Application) error {
				var errs []error
				for _, def := range defs {
					res, err := app.importer.Apply(def, prune)
					if err != nil {
						errs = append(errs, err)
						continue
					}
					action := "updated"
					switch {
					case res.ZoneCreated:
						action = "created"
					case !res.ZoneUpdated:
						action = "unchanged"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: zone %s, records %d created, %d updated, %d deleted, %d unchanged\n",
						def.Zone.Name, action, res.Created, res.Updated, res.Deleted, res.Unchanged)
				}
				return errors.Join(errs...)
			})
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Delete records that are not in the definition")
	return cmd
}

func choicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "choices",
		Short: "List the selectable zone and record values with their display labels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, set := range choices.All() {
				fmt.Fprintf(tw, "%s\n", set.Key)
				for _, o := range set.Options {
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", o.Value, o.Label, o.Color)
				}
			}
			return tw.Flush()
		},
	}
}
