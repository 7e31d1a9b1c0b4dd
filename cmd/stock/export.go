package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
	"github.com/Spok95/obraz-stock/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Выгрузка в Excel",
	}
	cmd.PersistentFlags().StringVarP(&out, "output", "o", "", "файл .xlsx (по умолчанию — имя с отметкой времени)")

	cmd.AddCommand(&cobra.Command{
		Use:   "materials",
		Short: "Список материалов в .xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			buf := &bytes.Buffer{}
			if err := export.Materials(buf, store.List(cmd.Context())); err != nil {
				return err
			}
			return saveFile(cmd, out, export.FileName("materials", time.Now()), buf)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "used-in <id>",
		Short: "Отчёт «используется в» в .xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("ID:%d", id)
			if m, ok := materials.Find(store.List(cmd.Context()), id); ok {
				name = m.Name
			}
			rep := materials.NewUsageReport(store.UsedIn(cmd.Context(), id))

			buf := &bytes.Buffer{}
			if err := export.Usage(buf, name, rep); err != nil {
				return err
			}
			return saveFile(cmd, out, export.FileName(fmt.Sprintf("usage_%d", id), time.Now()), buf)
		},
	})
	return cmd
}

func saveFile(cmd *cobra.Command, path, fallback string, buf *bytes.Buffer) error {
	if path == "" {
		path = fallback
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Сформирован файл %s\n", path)
	return nil
}
