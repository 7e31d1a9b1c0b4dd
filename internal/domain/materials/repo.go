package materials

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Spok95/obraz-stock/internal/infra/metrics"
)

const (
	opList      = "list materials"
	opListTypes = "list material types"
	opAdd       = "add material"
	opUpdate    = "update material"
	opDelete    = "delete material"
	opUsedIn    = "materials used in"
)

const (
	qListMaterials = `
		SELECT m.id, m.name, m.type_id, mt.name,
		       m.unit_price, m.quantity_in_stock, m.min_quantity,
		       m.quantity_per_package, m.unit
		FROM material m
		JOIN material_type mt ON m.type_id = mt.id
		ORDER BY m.id
	`
	qListTypes = `SELECT id, name FROM material_type ORDER BY name`

	qInsertMaterial = `
		INSERT INTO material (
			name, type_id, unit_price, quantity_in_stock, min_quantity, quantity_per_package, unit
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	qUpdateMaterial = `
		UPDATE material SET name=$1, type_id=$2, unit_price=$3,
		                    quantity_in_stock=$4, min_quantity=$5,
		                    quantity_per_package=$6, unit=$7
		WHERE id=$8
	`
	qCountUsage     = `SELECT count(*) FROM product_material WHERE material_id = $1`
	qDeleteMaterial = `DELETE FROM material WHERE id = $1`

	qUsedIn = `
		SELECT p.name, pm.required_quantity
		FROM product_material pm
		JOIN product p ON pm.product_id = p.id
		WHERE pm.material_id = $1
		ORDER BY p.name
	`
)

// Beginner — соединение, умеющее открывать транзакцию (*pgxpool.Pool, *pgx.Conn).
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repo — склад материалов поверх одного соединения с БД.
// Каждая операция идёт в своей транзакции: commit при успехе, rollback при любой ошибке.
//
// Чтения (List, ListTypes, UsedIn) ошибок наружу не отдают и возвращают пустой
// результат; записи (Add, Update, Delete) возвращают *StoreError.
type Repo struct {
	db          Beginner
	log         *slog.Logger
	onListError func(error)
}

func NewRepo(db Beginner, log *slog.Logger) *Repo { return &Repo{db: db, log: log} }

// OnListError задаёт, как сообщить пользователю о неудачной загрузке списка материалов.
// Сам List при этом всё равно возвращает пустой список.
func (r *Repo) OnListError(fn func(error)) { r.onListError = fn }

func (r *Repo) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) (err error) {
	started := time.Now()
	defer func() { metrics.ObserveStoreOp(op, started, err) }()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return storeErr(op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err = fn(tx); err != nil {
		return storeErr(op, err)
	}
	if err = tx.Commit(ctx); err != nil {
		return storeErr(op, err)
	}
	return nil
}

/* Reads */

func (r *Repo) List(ctx context.Context) []Material {
	var out []Material
	err := r.inTx(ctx, opList, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, qListMaterials)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var m Material
			if err := rows.Scan(
				&m.ID,
				&m.Name,
				&m.TypeID,
				&m.TypeName,
				&m.UnitPrice,
				&m.QuantityInStock,
				&m.MinQuantity,
				&m.QuantityPerPackage,
				&m.Unit,
			); err != nil {
				return err
			}
			out = append(out, m)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Error("list materials failed", "err", err)
		if r.onListError != nil {
			r.onListError(err)
		}
		return []Material{}
	}
	if out == nil {
		out = []Material{}
	}
	return out
}

// ListTypes возвращает справочник типов. Пустой результат — это и «типов нет»,
// и «запрос упал»: вызывающий их не различает.
func (r *Repo) ListTypes(ctx context.Context) []Type {
	var out []Type
	err := r.inTx(ctx, opListTypes, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, qListTypes)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t Type
			if err := rows.Scan(&t.ID, &t.Name); err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Debug("list material types failed", "err", err)
		return []Type{}
	}
	if out == nil {
		out = []Type{}
	}
	return out
}

// UsedIn — продукция, в которой используется материал, с требуемым количеством.
func (r *Repo) UsedIn(ctx context.Context, materialID int64) []Usage {
	var out []Usage
	err := r.inTx(ctx, opUsedIn, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, qUsedIn, materialID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var u Usage
			if err := rows.Scan(&u.ProductName, &u.RequiredQuantity); err != nil {
				return err
			}
			out = append(out, u)
		}
		return rows.Err()
	})
	if err != nil {
		r.log.Debug("materials used in failed", "material_id", materialID, "err", err)
		return []Usage{}
	}
	if out == nil {
		out = []Usage{}
	}
	return out
}

/* Writes */

// Add вставляет материал и возвращает присвоенный id. Входные данные не проверяются:
// это делает вызывающий (см. ParseInput).
func (r *Repo) Add(ctx context.Context, in Input) (int64, error) {
	var id int64
	err := r.inTx(ctx, opAdd, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, qInsertMaterial,
			in.Name,
			in.TypeID,
			in.UnitPrice,
			in.QuantityInStock,
			in.MinQuantity,
			in.QuantityPerPackage,
			in.Unit,
		).Scan(&id)
	})
	if err != nil {
		return 0, err
	}
	r.log.Info("material added", "id", id, "name", in.Name)
	return id, nil
}

// Update заменяет все поля материала. Несуществующий id — не ошибка.
func (r *Repo) Update(ctx context.Context, id int64, in Input) error {
	return r.inTx(ctx, opUpdate, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, qUpdateMaterial,
			in.Name,
			in.TypeID,
			in.UnitPrice,
			in.QuantityInStock,
			in.MinQuantity,
			in.QuantityPerPackage,
			in.Unit,
			id,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			r.log.Debug("update matched no rows", "id", id)
		}
		return nil
	})
}

// Delete удаляет материал. Если материал входит в состав продукции — ErrMaterialInUse,
// ничего не удаляется. Несуществующий id — не ошибка.
func (r *Repo) Delete(ctx context.Context, id int64) error {
	return r.inTx(ctx, opDelete, func(tx pgx.Tx) error {
		var n int64
		if err := tx.QueryRow(ctx, qCountUsage, id).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return ErrMaterialInUse
		}

		tag, err := tx.Exec(ctx, qDeleteMaterial, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			r.log.Debug("delete matched no rows", "id", id)
		}
		return nil
	})
}
