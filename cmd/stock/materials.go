package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
)

func newMaterialsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "materials",
		Aliases: []string{"m"},
		Short:   "Материалы на складе",
	}
	cmd.AddCommand(
		newMaterialsListCmd(a),
		newMaterialsAddCmd(a),
		newMaterialsEditCmd(a),
		newMaterialsDeleteCmd(a),
		newMaterialsUsedInCmd(a),
	)
	return cmd
}

func newMaterialsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Показать все материалы",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			items := store.List(cmd.Context())
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), materialsJSON(items))
			}
			return renderMaterials(cmd.OutOrStdout(), items)
		},
	}
}

// materialFlags — поля формы материала; в edit пустые флаги не трогают текущее значение.
type materialFlags struct {
	name, typeID, price, qty, minQty, pkgQty, unit string
}

func (f *materialFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "наименование")
	fl.StringVar(&f.typeID, "type", "", "id типа материала (см. stock types)")
	fl.StringVar(&f.price, "price", "", "цена единицы")
	fl.StringVar(&f.qty, "qty", "", "количество на складе")
	fl.StringVar(&f.minQty, "min", "", "минимальное количество")
	fl.StringVar(&f.pkgQty, "pkg", "", "количество в упаковке")
	fl.StringVar(&f.unit, "unit", "", "единица измерения")
}

func (f *materialFlags) raw() materials.RawInput {
	return materials.RawInput{
		Name:               f.name,
		TypeID:             f.typeID,
		UnitPrice:          f.price,
		QuantityInStock:    f.qty,
		MinQuantity:        f.minQty,
		QuantityPerPackage: f.pkgQty,
		Unit:               f.unit,
	}
}

// overlay накладывает явно заданные флаги на текущие значения материала.
func (f *materialFlags) overlay(cmd *cobra.Command, m materials.Material) materials.RawInput {
	raw := materials.RawInput{
		Name:               m.Name,
		TypeID:             strconv.FormatInt(m.TypeID, 10),
		UnitPrice:          materials.FormatAmount(m.UnitPrice),
		QuantityInStock:    materials.FormatAmount(m.QuantityInStock),
		MinQuantity:        materials.FormatAmount(m.MinQuantity),
		QuantityPerPackage: materials.FormatAmount(m.QuantityPerPackage),
		Unit:               m.Unit,
	}
	changed := cmd.Flags().Changed
	if changed("name") {
		raw.Name = f.name
	}
	if changed("type") {
		raw.TypeID = f.typeID
	}
	if changed("price") {
		raw.UnitPrice = f.price
	}
	if changed("qty") {
		raw.QuantityInStock = f.qty
	}
	if changed("min") {
		raw.MinQuantity = f.minQty
	}
	if changed("pkg") {
		raw.QuantityPerPackage = f.pkgQty
	}
	if changed("unit") {
		raw.Unit = f.unit
	}
	return raw
}

func newMaterialsAddCmd(a *app) *cobra.Command {
	var f materialFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Добавить материал",
		Long: `Add создаёт материал. Все поля обязательны; числа — от 0 до 999999.99,
не больше двух знаков после запятой.

Example:
  stock materials add --name "Бязь" --type 1 --price 125,50 --qty 40 --min 10 --pkg 2.5 --unit м`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := materials.ParseInput(f.raw())
			if err != nil {
				return err
			}
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			id, err := store.Add(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("не удалось сохранить материал: %w", err)
			}
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Материал добавлен, id=%d\n", id)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newMaterialsEditCmd(a *app) *cobra.Command {
	var f materialFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Редактировать материал",
		Long: `Edit перезаписывает материал целиком: незаданные флаги берутся из текущих значений.

Example:
  stock materials edit 12 --qty 35 --price 130`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			items, err := a.loadMaterials(cmd, store)
			if err != nil {
				return err
			}
			current, ok := materials.Find(items, id)
			if !ok {
				return userErrorf("материал %d не найден", id)
			}
			in, err := materials.ParseInput(f.overlay(cmd, current))
			if err != nil {
				return err
			}
			if err := store.Update(cmd.Context(), id, in); err != nil {
				return fmt.Errorf("не удалось сохранить материал: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Материал %d сохранён\n", id)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newMaterialsDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Удалить материал",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, "Вы уверены?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Отменено")
				return nil
			}
			store, err := a.connect(cmd)
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("не удалось удалить материал: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Материал %d удалён\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "не спрашивать подтверждение")
	return cmd
}

func newMaterialsUsedInCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "used-in <id>",
		Short: "Продукция, использующая материал",
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
			rep := materials.NewUsageReport(store.UsedIn(cmd.Context(), id))
			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), usageJSON(id, rep))
			}
			return renderUsage(cmd.OutOrStdout(), rep)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, userErrorf("неверный id %q", s)
	}
	return id, nil
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "д", "да":
		return true
	}
	return false
}
