package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Spok95/obraz-stock/internal/infra/db"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Обслуживание базы данных",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Создать таблицы склада в пустой базе",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := db.Migrate(cmd.Context(), a.cfg.Postgres.ConnString()); err != nil {
				a.log.Error("migrations failed", "err", err)
				return err
			}
			a.log.Info("migrations applied")
			fmt.Fprintln(cmd.OutOrStdout(), "Схема создана")
			return nil
		},
	})
	return cmd
}
