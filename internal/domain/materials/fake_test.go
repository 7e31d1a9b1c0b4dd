package materials

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

type link struct {
	productID  int64
	materialID int64
	qty        decimal.Decimal
}

// fakeDB — таблицы в памяти, понимающие ровно те запросы, что шлёт Repo.
// Записи применяются только на Commit.
type fakeDB struct {
	types     map[int64]string
	products  map[int64]string
	materials map[int64]Input
	links     []link
	nextID    int64

	failBegin error
	failStmt  error

	commits   int
	rollbacks int
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		types:     map[int64]string{1: "Ткань", 2: "Фурнитура"},
		products:  map[int64]string{},
		materials: map[int64]Input{},
	}
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	if db.failBegin != nil {
		return nil, db.failBegin
	}
	return &fakeTx{db: db}, nil
}

type fakeTx struct {
	pgx.Tx // не реализованные методы паникуют

	db      *fakeDB
	pending []func()
	closed  bool
}

func (tx *fakeTx) Commit(context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	for _, fn := range tx.pending {
		fn()
	}
	tx.closed = true
	tx.db.commits++
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	if tx.closed {
		return pgx.ErrTxClosed
	}
	tx.pending = nil
	tx.closed = true
	tx.db.rollbacks++
	return nil
}

func fkViolation() error {
	return &pgconn.PgError{Code: sqlStateForeignKeyViolation, Message: "violates foreign key constraint"}
}

func inputArgs(args []any) Input {
	return Input{
		Name:               args[0].(string),
		TypeID:             args[1].(int64),
		UnitPrice:          args[2].(decimal.Decimal),
		QuantityInStock:    args[3].(decimal.Decimal),
		MinQuantity:        args[4].(decimal.Decimal),
		QuantityPerPackage: args[5].(decimal.Decimal),
		Unit:               args[6].(string),
	}
}

func (tx *fakeTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx.db.failStmt != nil {
		return pgconn.CommandTag{}, tx.db.failStmt
	}
	switch sql {
	case qUpdateMaterial:
		in := inputArgs(args)
		id := args[7].(int64)
		if _, ok := tx.db.types[in.TypeID]; !ok {
			return pgconn.CommandTag{}, fkViolation()
		}
		if _, ok := tx.db.materials[id]; !ok {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		tx.pending = append(tx.pending, func() { tx.db.materials[id] = in })
		return pgconn.NewCommandTag("UPDATE 1"), nil
	case qDeleteMaterial:
		id := args[0].(int64)
		if _, ok := tx.db.materials[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		tx.pending = append(tx.pending, func() { delete(tx.db.materials, id) })
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.CommandTag{}, fmt.Errorf("fake: unexpected exec %q", sql)
}

func (tx *fakeTx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	if tx.db.failStmt != nil {
		return fakeRow{err: tx.db.failStmt}
	}
	switch sql {
	case qInsertMaterial:
		in := inputArgs(args)
		if _, ok := tx.db.types[in.TypeID]; !ok {
			return fakeRow{err: fkViolation()}
		}
		tx.db.nextID++
		id := tx.db.nextID
		tx.pending = append(tx.pending, func() { tx.db.materials[id] = in })
		return fakeRow{vals: []any{id}}
	case qCountUsage:
		id := args[0].(int64)
		var n int64
		for _, l := range tx.db.links {
			if l.materialID == id {
				n++
			}
		}
		return fakeRow{vals: []any{n}}
	}
	return fakeRow{err: fmt.Errorf("fake: unexpected query row %q", sql)}
}

func (tx *fakeTx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx.db.failStmt != nil {
		return nil, tx.db.failStmt
	}
	var out [][]any
	switch sql {
	case qListMaterials:
		ids := make([]int64, 0, len(tx.db.materials))
		for id := range tx.db.materials {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			m := tx.db.materials[id]
			out = append(out, []any{
				id, m.Name, m.TypeID, tx.db.types[m.TypeID],
				m.UnitPrice, m.QuantityInStock, m.MinQuantity, m.QuantityPerPackage, m.Unit,
			})
		}
	case qListTypes:
		for id, name := range tx.db.types {
			out = append(out, []any{id, name})
		}
	case qUsedIn:
		id := args[0].(int64)
		for _, l := range tx.db.links {
			if l.materialID == id {
				out = append(out, []any{tx.db.products[l.productID], l.qty})
			}
		}
	default:
		return nil, fmt.Errorf("fake: unexpected query %q", sql)
	}
	return &fakeRows{rows: out, pos: -1}, nil
}

type fakeRow struct {
	vals []any
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.vals)
}

type fakeRows struct {
	rows [][]any
	pos  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error { return assign(dest, r.rows[r.pos]) }

func (r *fakeRows) Values() ([]any, error) { return r.rows[r.pos], nil }

func assign(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return fmt.Errorf("fake: scan %d values into %d targets", len(vals), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = vals[i].(int64)
		case *string:
			*p = vals[i].(string)
		case *decimal.Decimal:
			*p = vals[i].(decimal.Decimal)
		default:
			return fmt.Errorf("fake: unsupported scan target %T", d)
		}
	}
	return nil
}
