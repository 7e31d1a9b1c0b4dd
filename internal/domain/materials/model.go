package materials

import "github.com/shopspring/decimal"

type Material struct {
	ID                 int64
	Name               string
	TypeID             int64
	TypeName           string // material_type.name (для отображения)
	UnitPrice          decimal.Decimal
	QuantityInStock    decimal.Decimal
	MinQuantity        decimal.Decimal
	QuantityPerPackage decimal.Decimal
	Unit               string // kg, pcs, м ...
}

// BelowMinimum — остаток ниже порога дозаказа.
func (m Material) BelowMinimum() bool {
	return m.QuantityInStock.LessThan(m.MinQuantity)
}

// Input — записываемые поля материала (add/update заменяют строку целиком).
type Input struct {
	Name               string
	TypeID             int64
	UnitPrice          decimal.Decimal
	QuantityInStock    decimal.Decimal
	MinQuantity        decimal.Decimal
	QuantityPerPackage decimal.Decimal
	Unit               string
}

type Type struct {
	ID   int64
	Name string
}

// Usage — продукт, в котором используется материал.
type Usage struct {
	ProductName      string
	RequiredQuantity decimal.Decimal
}

// Find ищет материал в уже загруженном списке.
func Find(items []Material, id int64) (Material, bool) {
	for _, m := range items {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}
