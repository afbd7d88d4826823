package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/config"
	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/whatsapp"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var useSQL bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply database migrations.

By default every model is auto-migrated. With --sql (or MIGRATIONS=1) the
versioned SQL files under ./migrations are applied instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := connect()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn, useSQL || cfg.App.Migrations, cfg.Database.URL()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&useSQL, "sql", false, "apply the SQL migrations instead of auto-migrating")
	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the company row and the PDG account when missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := connect()
			if err != nil {
				return err
			}
			err = db.Seed(conn, db.SeedInput{
				AdminCIN:      cfg.App.AdminCIN,
				AdminPassword: cfg.App.AdminPassword,
				AdminName:     cfg.App.AdminName,
				CompanyName:   cfg.App.CompanyName,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed done")
			return nil
		},
	}
}

func overdueCmd() *cobra.Command {
	var (
		contactType string
		value       int
		unit        string
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "overdue",
		Short: "List contacts whose last payment is older than the threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := connect()
			if err != nil {
				return err
			}
			threshold := ledger.Threshold{Value: cfg.Ledger.OverdueValue, Unit: cfg.Ledger.OverdueUnit}
			if value > 0 {
				threshold = ledger.Threshold{Value: value, Unit: unit}
			}
			contacts := services.NewContactService(conn, threshold.Normalized())
			list, err := contacts.Overdue(cmd.Context(), contactType)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}
			return printOverdue(cmd.OutOrStdout(), list)
		},
	}
	cmd.Flags().StringVarP(&contactType, "type", "t", "", "contact type (Client or Fournisseur)")
	cmd.Flags().IntVar(&value, "value", 0, "threshold value, overrides OVERDUE_VALUE")
	cmd.Flags().StringVar(&unit, "unit", "days", "threshold unit: days or months")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

func printOverdue(w io.Writer, list []services.ContactView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOM\tTYPE\tSOLDE CUMULE\tDERNIER PAIEMENT")
	for _, c := range list {
		last := "-"
		if c.LastPayment != nil {
			last = c.LastPayment.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.NomComplet, c.Type, i18n.FormatAmount("fr", c.SoldeCumule), last)
	}
	return tw.Flush()
}

func whatsappCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whatsapp",
		Short: "WhatsApp gateway commands",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the gateway session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			client := whatsapp.New(cfg.WhatsApp)
			if !client.Configured() {
				return fmt.Errorf("WHTSP_SERVICE_BASE_URL and WHTSP_SERVICE_API_KEY must be set")
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		},
	})
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash stored in users.password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.HashPassword(strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
