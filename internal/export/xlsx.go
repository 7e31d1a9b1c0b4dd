package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
)

const (
	materialsSheet = "Материалы"
	usageSheet     = "Используется в"
)

// Materials выгружает список материалов в Excel: те же колонки, что в таблице склада.
func Materials(w io.Writer, items []materials.Material) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), materialsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{
		"ID",
		"Наименование",
		"Тип",
		"Цена",
		"Остаток",
		"Минимум",
		"Упаковка",
		"Ед.",
		"Ниже минимума",
	}
	if err := f.SetSheetRow(materialsSheet, "A1", &header); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	row := 2
	for _, m := range items {
		below := ""
		if m.BelowMinimum() {
			below = "да"
		}
		excelRow := []interface{}{
			m.ID,
			m.Name,
			m.TypeName,
			m.UnitPrice.InexactFloat64(),
			m.QuantityInStock.InexactFloat64(),
			m.MinQuantity.InexactFloat64(),
			m.QuantityPerPackage.InexactFloat64(),
			m.Unit,
			below,
		}
		if err := setRow(f, materialsSheet, row, excelRow); err != nil {
			return err
		}
		row++
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// Usage выгружает отчёт «используется в» для одного материала с итоговой строкой.
func Usage(w io.Writer, materialName string, rep materials.UsageReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), usageSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetCellValue(usageSheet, "A1", "Материал: "+materialName); err != nil {
		return fmt.Errorf("title: %w", err)
	}
	header := []interface{}{"Продукция", "Необходимое количество"}
	if err := f.SetSheetRow(usageSheet, "A2", &header); err != nil {
		return fmt.Errorf("header: %w", err)
	}

	row := 3
	for _, u := range rep.Rows {
		if err := setRow(f, usageSheet, row, []interface{}{
			u.ProductName,
			u.RequiredQuantity.InexactFloat64(),
		}); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, usageSheet, row, []interface{}{
		"Общее необходимое количество:",
		rep.Total.InexactFloat64(),
	}); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// FileName — имя файла выгрузки с отметкой времени.
func FileName(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("row %d: %w", row, err)
	}
	return nil
}
