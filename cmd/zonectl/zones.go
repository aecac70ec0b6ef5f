package main

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haukened/zonekeeper/internal/dns/choices"
	"github.com/haukened/zonekeeper/internal/dns/domain"
)

// zoneFlags binds the editable zone fields. Only flags set on the command
// line end up in the patch.
type zoneFlags struct {
	name        string
	zoneType    string
	status      string
	defaultTTL  uint32
	autoSerial  bool
	description string
	soaTTL      uint32
	mname       string
	rname       string
	serial      uint32
	refresh     uint32
	retry       uint32
	expire      uint32
	minimum     uint32
}

func (f *zoneFlags) register(fs *pflag.FlagSet, withName bool) {
	if withName {
		fs.StringVar(&f.name, "name", "", "Zone name")
	}
	fs.StringVar(&f.zoneType, "type", "", "Zone type (primary, disabled)")
	fs.StringVar(&f.status, "status", "", "Zone status (active, disabled)")
	fs.Uint32Var(&f.defaultTTL, "default-ttl", 0, "Default record TTL in seconds (default 3600)")
	fs.BoolVar(&f.autoSerial, "auto-serial", true, "Compute the SOA serial automatically")
	fs.StringVar(&f.description, "description", "", "Free-form description")
	fs.Uint32Var(&f.soaTTL, "soa-ttl", 0, "TTL of the SOA record (default 3600)")
	fs.StringVar(&f.mname, "mname", "", "Primary name server")
	fs.StringVar(&f.rname, "rname", "", "Responsible mailbox, as a domain name or user@domain")
	fs.Uint32Var(&f.serial, "serial", 0, "SOA serial; ignored while auto-serial is on")
	fs.Uint32Var(&f.refresh, "refresh", 0, "SOA refresh interval (default 3600)")
	fs.Uint32Var(&f.retry, "retry", 0, "SOA retry interval (default 900)")
	fs.Uint32Var(&f.expire, "expire", 0, "SOA expire interval (default 604800)")
	fs.Uint32Var(&f.minimum, "minimum", 0, "SOA minimum TTL (default 3600)")
}

func changed[T any](fs *pflag.FlagSet, name string, v T) *T {
	if !fs.Changed(name) {
		return nil
	}
	return &v
}

func (f *zoneFlags) patch(fs *pflag.FlagSet) domain.ZonePatch {
	var p domain.ZonePatch
	p.Name = changed(fs, "name", f.name)
	if fs.Changed("type") {
		t := domain.ZoneType(f.zoneType)
		p.Type = &t
	}
	if fs.Changed("status") {
		s := domain.ZoneStatus(f.status)
		p.Status = &s
	}
	p.DefaultTTL = changed(fs, "default-ttl", f.defaultTTL)
	p.AutoSerial = changed(fs, "auto-serial", f.autoSerial)
	p.Description = changed(fs, "description", f.description)
	p.SOA.TTL = changed(fs, "soa-ttl", f.soaTTL)
	p.SOA.MName = changed(fs, "mname", f.mname)
	p.SOA.RName = changed(fs, "rname", f.rname)
	p.SOA.Serial = changed(fs, "serial", f.serial)
	p.SOA.Refresh = changed(fs, "refresh", f.refresh)
	p.SOA.Retry = changed(fs, "retry", f.retry)
	p.SOA.Expire = changed(fs, "expire", f.expire)
	p.SOA.Minimum = changed(fs, "minimum", f.minimum)
	return p
}

func zoneCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:   "zone",
		Short: "Manage zones",
	}

	c.AddCommand(zoneCreateCmd(s))
	c.AddCommand(zoneListCmd(s))
	c.AddCommand(zoneShowCmd(s))
	c.AddCommand(zoneUpdateCmd(s))
	c.AddCommand(zoneDeleteCmd(s))
	return c
}

func zoneCreateCmd(s *session) *cobra.Command {
	var flags zoneFlags

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := flags.patch(cmd.Flags()).Apply(domain.NewZone(args[0]))
			return s.run(func(app *Application) error {
				z, err := app.zones.Create(draft)
				if err != nil {
					return err
				}
				printZone(cmd.OutOrStdout(), z)
				return nil
			})
		},
	}

	flags.register(cmd.Flags(), false)
	return cmd
}

func zoneListCmd(s *session) *cobra.Command {
	var name, zoneType, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := domain.ZoneFilter{
				Name:   name,
				Type:   domain.ZoneType(zoneType),
				Status: domain.ZoneStatus(status),
			}
			return s.run(func(app *Application) error {
				var zones []domain.Zone
				for z, err := range app.zones.List(filter) {
					if err != nil {
						return err
					}
					zones = append(zones, z)
				}
				if len(zones) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "(no zones found)")
					return nil
				}
				slices.SortFunc(zones, func(a, b domain.Zone) int {
					return strings.Compare(a.CanonicalName(), b.CanonicalName())
				})

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSTATUS\tSERIAL")
				for _, z := range zones {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", z.ID, z.Name, z.Type, z.Status, z.SOA.Serial)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Only zones with this name")
	cmd.Flags().StringVar(&zoneType, "type", "", "Only zones of this type")
	cmd.Flags().StringVar(&status, "status", "", "Only zones with this status")
	return cmd
}

func zoneShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show ZONE",
		Short: "Show a zone by ID or name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(func(app *Application) error {
				z, err := resolveZone(app, args[0])
				if err != nil {
					return err
				}
				printZone(cmd.OutOrStdout(), z)
				return nil
			})
		},
	}
}

func zoneUpdateCmd(s *session) *cobra.Command {
	var flags zoneFlags

	cmd := &cobra.Command{
		Use:   "update ZONE",
		Short: "Change zone settings; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := flags.patch(cmd.Flags())
			return s.run(func(app *Application) error {
				z, err := resolveZone(app, args[0])
				if err != nil {
					return err
				}
				z, err = app.zones.Update(z.ID, patch)
				if err != nil {
					return err
				}
				printZone(cmd.OutOrStdout(), z)
				return nil
			})
		},
	}

	flags.register(cmd.Flags(), true)
	return cmd
}

func zoneDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ZONE",
		Short: "Delete a zone and all of its records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(func(app *Application) error {
				z, err := resolveZone(app, args[0])
				if err != nil {
					return err
				}
				if err := app.zones.Delete(z.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted zone %s (%s)\n", z.Name, z.ID)
				return nil
			})
		},
	}
}

func printZone(w io.Writer, z domain.Zone) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", z.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", z.Name)
	fmt.Fprintf(tw, "Type:\t%s\n", choices.ZoneType(z.Type).Label)
	fmt.Fprintf(tw, "Status:\t%s\n", choices.ZoneStatus(z.Status).Label)
	fmt.Fprintf(tw, "Default TTL:\t%d\n", z.DefaultTTL)
	fmt.Fprintf(tw, "SOA:\t%s %s %d %d %d %d %d (ttl %d)\n",
		orDash(z.SOA.MName), orDash(z.SOA.RName), z.SOA.Serial,
		z.SOA.Refresh, z.SOA.Retry, z.SOA.Expire, z.SOA.Minimum, z.SOA.TTL)
	fmt.Fprintf(tw, "Auto serial:\t%t\n", z.AutoSerial)
	if z.Description != "" {
		fmt.Fprintf(tw, "Description:\t%s\n", z.Description)
	}
	fmt.Fprintf(tw, "Updated:\t%s\n", z.Updated.Format(time.RFC3339))
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
