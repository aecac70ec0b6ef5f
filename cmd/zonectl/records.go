package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haukened/zonekeeper/internal/dns/choices"
	"github.com/haukened/zonekeeper/internal/dns/domain"
)

// parseRRType accepts a mnemonic (A, srv) or a numeric type code.
func parseRRType(s string) domain.RRType {
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return domain.RRType(n)
	}
	return domain.RRTypeFromString(s)
}

func recordCmd(s *session) *cobra.Command {
	c := &cobra.Command{
		Use:   "record",
		Short: "Manage records within a zone",
	}

	c.AddCommand(recordCreateCmd(s))
	c.AddCommand(recordListCmd(s))
	c.AddCommand(recordShowCmd(s))
	c.AddCommand(recordUpdateCmd(s))
	c.AddCommand(recordDeleteCmd(s))
	return c
}

func recordCreateCmd(s *session) *cobra.Command {
	var ttl uint32
	var status string

	cmd := &cobra.Command{
		Use:   "create ZONE NAME TYPE VALUE...",
		Short: "Add a record to a zone",
		Long: "Add a record to a zone. Remaining arguments are joined with spaces to form the value,\n" +
			"so SRV data can be given unquoted: record create example.com _sip._tcp SRV 10 60 5060 sip",
		Args: cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := domain.NewRecord(args[1], parseRRType(args[2]), strings.Join(args[3:], " "))
			if cmd.Flags().Changed("ttl") {
				draft.TTL = ttl
			}
			if cmd.Flags().Changed("status") {
				draft.Status = domain.RecordStatus(status)
			}
			return s.run(func(app *Application) error {
				z, err := resolveZone(app, args[0])
				if err != nil {
					return err
				}
				rec, err := app.records.Create(z.ID, draft)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}

	cmd.Flags().Uint32Var(&ttl, "ttl", domain.DefaultRecordTTL, "Record TTL in seconds")
	cmd.Flags().StringVar(&status, "status", string(domain.RecordStatusActive), "Record status (active, disabled)")
	return cmd
}

func recordListCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list ZONE",
		Short: "List the records of a zone ordered by type and name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(func(app *Application) error {
				z, err := resolveZone(app, args[0])
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tTTL\tTYPE\tSTATUS\tVALUE")
				for rec, err := range app.records.ListByZone(z.ID) {
					if err != nil {
						return err
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", rec.ID, rec.Name, rec.TTL, rec.Type, rec.Status, rec.Value)
				}
				return tw.Flush()
			})
		},
	}
}

func recordShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(func(app *Application) error {
				rec, err := app.records.Get(args[0])
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}
}

func recordUpdateCmd(s *session) *cobra.Command {
	var name, rrType, value, status string
	var ttl uint32

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a record; only the given flags are applied",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			patch := domain.RecordPatch{
				Name:  changed(fs, "name", name),
				Value: changed(fs, "value", value),
				TTL:   changed(fs, "ttl", ttl),
			}
			if fs.Changed("type") {
				t := parseRRType(rrType)
				patch.Type = &t
			}
			if fs.Changed("status") {
				st := domain.RecordStatus(status)
				patch.Status = &st
			}
			return s.run(func(app *Application) error {
				rec, err := app.records.Update(args[0], patch)
				if err != nil {
					return err
				}
				printRecord(cmd.OutOrStdout(), rec)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Owner name")
	cmd.Flags().StringVar(&rrType, "type", "", "Record type")
	cmd.Flags().StringVar(&value, "value", "", "Record data")
	cmd.Flags().Uint32Var(&ttl, "ttl", 0, "Record TTL in seconds")
	cmd.Flags().StringVar(&status, "status", "", "Record status (active, disabled)")
	return cmd
}

func recordDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(func(app *Application) error {
				if err := app.records.Delete(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted record %s\n", args[0])
				return nil
			})
		},
	}
}

func printRecord(w io.Writer, r domain.Record) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", r.ID)
	fmt.Fprintf(tw, "Zone:\t%s\n", r.ZoneID)
	fmt.Fprintf(tw, "Name:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Type:\t%s (%s)\n", r.Type, choices.RecordType(r.Type).Label)
	fmt.Fprintf(tw, "Value:\t%s\n", r.Value)
	fmt.Fprintf(tw, "TTL:\t%d\n", r.TTL)
	fmt.Fprintf(tw, "Status:\t%s\n", choices.RecordStatus(r.Status).Label)
	tw.Flush()
}
