package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/rajbari-portal/internal/app/admin"
)

func trackCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "track <train-id>",
		Short: "Look up the current position of a train",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			tr, err := a.tracker.Track(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("tracking %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s) [%s]\n", tr.Train.Name, tr.Train.Route, tr.Mode.Badge())
			if tr.StationKnown {
				fmt.Fprintf(out, "station: %s\n", tr.CurrentStation)
			}
			if tr.Notice != "" {
				fmt.Fprintf(out, "notice: %s\n", tr.Notice)
			}
			fmt.Fprintln(out, tr.Inference.Reason)
			for _, s := range tr.Sources {
				fmt.Fprintf(out, "  - %s <%s>\n", s.Title, s.URI)
			}
			return nil
		},
	}
}

func diagCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "diag",
		Short: "Send a probe through the configured AI backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*cfgPath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.close()

			d := a.admin.Diagnostics(cmd.Context())
			if err := printJSON(cmd.OutOrStdout(), d); err != nil {
				return err
			}
			if !d.Online {
				return fmt.Errorf("provider offline: %s", d.Error)
			}
			return nil
		},
	}
}

func hashPINCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Print the bcrypt hash to configure as PORTAL_ADMIN_PIN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := admin.HashPIN(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
