package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/haukened/zonekeeper/internal/dns/domain"
)

// session builds a fresh application for each command run and closes it
// when the command returns.
type session struct {
	build func() (*Application, error)
}

func (s *session) run(fn func(*Application) error) (err error) {
	app, err := s.build()
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()
	return fn(app)
}

func Execute() {
	cmd := newRootCmd(loadApplication)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(build func() (*Application, error)) *cobra.Command {
	s := &session{build: build}

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Manage DNS zones and records and export them as zone files",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.AddCommand(zoneCmd(s))
	cmd.AddCommand(recordCmd(s))
	cmd.AddCommand(renderCmd(s))
	cmd.AddCommand(importCmd(s))
	cmd.AddCommand(choicesCmd())
	return cmd
}

// resolveZone accepts a zone ID or a zone name.
func resolveZone(app *Application, ref string) (domain.Zone, error) {
	z, err := app.zones.Get(ref)
	if err == nil || !errors.Is(err, domain.ErrNotFound) {
		return z, err
	}
	if byName, nerr := app.zones.FindByName(ref); nerr == nil {
		return byName, nil
	}
	return domain.Zone{}, err
}
