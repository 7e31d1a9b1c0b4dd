package materials

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrMaterialInUse is returned when a material is still referenced by product_material.
	ErrMaterialInUse = errors.New("material is used by products")
	// ErrUnknownType is returned when type_id does not reference an existing material_type.
	ErrUnknownType = errors.New("material type does not exist")
)

// StoreError wraps any persistence failure of the store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error { return e.Err }

const sqlStateForeignKeyViolation = "23503"

// storeErr классифицирует ошибку БД: нарушение FK на записи — неизвестный тип,
// на удалении — материал используется в продукции.
func storeErr(op string, err error) *StoreError {
	var se *StoreError
	if errors.As(err, &se) {
		return se
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == sqlStateForeignKeyViolation {
		switch op {
		case opAdd, opUpdate:
			return &StoreError{Op: op, Err: fmt.Errorf("%w: %w", ErrUnknownType, err)}
		case opDelete:
			return &StoreError{Op: op, Err: fmt.Errorf("%w: %w", ErrMaterialInUse, err)}
		}
	}
	return &StoreError{Op: op, Err: err}
}
