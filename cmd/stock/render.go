package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
)

func renderMaterials(w io.Writer, items []materials.Material) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tНаименование\tТип\tЦена\tОстаток\tМинимум\tУпаковка\tЕд.\t")
	for _, m := range items {
		mark := ""
		if m.BelowMinimum() {
			mark = "*"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s%s\t%s\t%s\t%s\t\n",
			m.ID,
			m.Name,
			m.TypeName,
			materials.FormatAmount(m.UnitPrice),
			materials.FormatAmount(m.QuantityInStock), mark,
			materials.FormatAmount(m.MinQuantity),
			materials.FormatAmount(m.QuantityPerPackage),
			m.Unit,
		)
	}
	return tw.Flush()
}

func renderTypes(w io.Writer, types []materials.Type) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tТип\t")
	for _, t := range types {
		fmt.Fprintf(tw, "%d\t%s\t\n", t.ID, t.Name)
	}
	return tw.Flush()
}

func renderUsage(w io.Writer, rep materials.UsageReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Продукция\tНеобходимое количество\t")
	for _, u := range rep.Rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", u.ProductName, materials.FormatAmount(u.RequiredQuantity))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Общее необходимое количество: %s\n", rep.TotalString())
	return err
}

type materialRow struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	TypeID             int64  `json:"type_id"`
	TypeName           string `json:"type_name"`
	UnitPrice          string `json:"unit_price"`
	QuantityInStock    string `json:"quantity_in_stock"`
	MinQuantity        string `json:"min_quantity"`
	QuantityPerPackage string `json:"quantity_per_package"`
	Unit               string `json:"unit"`
	BelowMinimum       bool   `json:"below_minimum"`
}

func materialsJSON(items []materials.Material) []materialRow {
	out := make([]materialRow, 0, len(items))
	for _, m := range items {
		out = append(out, materialRow{
			ID:                 m.ID,
			Name:               m.Name,
			TypeID:             m.TypeID,
			TypeName:           m.TypeName,
			UnitPrice:          materials.FormatAmount(m.UnitPrice),
			QuantityInStock:    materials.FormatAmount(m.QuantityInStock),
			MinQuantity:        materials.FormatAmount(m.MinQuantity),
			QuantityPerPackage: materials.FormatAmount(m.QuantityPerPackage),
			Unit:               m.Unit,
			BelowMinimum:       m.BelowMinimum(),
		})
	}
	return out
}

type typeRow struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func typesJSON(types []materials.Type) []typeRow {
	out := make([]typeRow, 0, len(types))
	for _, t := range types {
		out = append(out, typeRow{t.ID, t.Name})
	}
	return out
}

type usageRow struct {
	ProductName      string `json:"product_name"`
	RequiredQuantity string `json:"required_quantity"`
}

func usageJSON(id int64, rep materials.UsageReport) any {
	rows := make([]usageRow, 0, len(rep.Rows))
	for _, u := range rep.Rows {
		rows = append(rows, usageRow{u.ProductName, materials.FormatAmount(u.RequiredQuantity)})
	}
	return map[string]any{"material_id": id, "rows": rows, "total": rep.TotalString()}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
