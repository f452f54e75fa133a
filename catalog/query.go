package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/StatisMike/gdext/obj"
	"github.com/StatisMike/gdext/schema"
)

// ErrNotExported is returned by Meta on a catalog nothing was exported to.
var ErrNotExported = errors.New("catalog is empty")

// Meta identifies the schema a catalog was exported from.
type Meta struct {
	APIVersion  string
	FullName    string
	BuildConfig string
	Precision   string
	Digest      string
}

// ClassRow is one exported class.
type ClassRow struct {
	Name         string
	GoName       string
	Parent       string
	APIType      string
	Memory       string
	RefCounted   bool
	Instantiable bool
	Singleton    bool
}

// MethodRow is one exported method. Hash is zero for virtual methods.
type MethodRow struct {
	Class      string
	Name       string
	Hash       int64
	IsVirtual  bool
	IsStatic   bool
	IsVararg   bool
	IsConst    bool
	ReturnType string
	ArgCount   int
}

func (c *Catalog) Meta(ctx context.Context) (Meta, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT key, value FROM meta`)
	if err != nil {
		return Meta{}, fmt.Errorf("query meta: %w", err)
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return Meta{}, fmt.Errorf("scan meta: %w", err)
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return Meta{}, err
	}
	if len(values) == 0 {
		return Meta{}, ErrNotExported
	}
	return Meta{
		APIVersion:  values["api_version"],
		FullName:    values["full_name"],
		BuildConfig: values["build_config"],
		Precision:   values["precision"],
		Digest:      values["digest"],
	}, nil
}

// Classes returns every class, bases before derived.
func (c *Catalog) Classes(ctx context.Context) ([]ClassRow, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name, go_name, parent, api_type, memory, refcounted, instantiable, singleton
FROM classes ORDER BY ord`)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()

	var out []ClassRow
	for rows.Next() {
		var r ClassRow
		if err := rows.Scan(&r.Name, &r.GoName, &r.Parent, &r.APIType, &r.Memory, &r.RefCounted, &r.Instantiable, &r.Singleton); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Bases returns the upcast edges out of derived, nearest base first.
func (c *Catalog) Bases(ctx context.Context, derived string) ([]obj.Edge, error) {
	return c.edges(ctx, `SELECT derived, base, distance FROM edges WHERE derived = ? ORDER BY distance`, derived)
}

// Derived returns the edges into base, nearest subclasses first.
func (c *Catalog) Derived(ctx context.Context, base string) ([]obj.Edge, error) {
	return c.edges(ctx, `SELECT derived, base, distance FROM edges WHERE base = ? ORDER BY distance, derived`, base)
}

// Inherits reports whether an upcast edge from derived to base exists.
func (c *Catalog) Inherits(ctx context.Context, derived, base string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM edges WHERE derived = ? AND base = ?`, derived, base).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query edge %s -> %s: %w", derived, base, err)
	}
	return n > 0, nil
}

func (c *Catalog) edges(ctx context.Context, query, arg string) ([]obj.Edge, error) {
	rows, err := c.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query edges of %s: %w", arg, err)
	}
	defer rows.Close()

	var out []obj.Edge
	for rows.Next() {
		var e obj.Edge
		if err := rows.Scan(&e.Derived, &e.Base, &e.Distance); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Methods returns the methods declared directly on class, in schema order.
func (c *Catalog) Methods(ctx context.Context, class string) ([]MethodRow, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT class, name, COALESCE(hash, 0), is_virtual, is_static, is_vararg, is_const, return_type, arg_count
FROM methods WHERE class = ? ORDER BY ord`, class)
	if err != nil {
		return nil, fmt.Errorf("query methods of %s: %w", class, err)
	}
	defer rows.Close()

	var out []MethodRow
	for rows.Next() {
		var r MethodRow
		if err := rows.Scan(&r.Class, &r.Name, &r.Hash, &r.IsVirtual, &r.IsStatic, &r.IsVararg, &r.IsConst, &r.ReturnType, &r.ArgCount); err != nil {
			return nil, fmt.Errorf("scan method: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// EnumValues returns the values of an enum in declaration order. owner is
// empty for global enums.
func (c *Catalog) EnumValues(ctx context.Context, owner, enum string) ([]schema.EnumConstant, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT name, value FROM enum_values WHERE owner = ? AND enum = ? ORDER BY ord`, owner, enum)
	if err != nil {
		return nil, fmt.Errorf("query enum %s.%s: %w", owner, enum, err)
	}
	defer rows.Close()

	var out []schema.EnumConstant
	for rows.Next() {
		var v schema.EnumConstant
		if err := rows.Scan(&v.Name, &v.Value); err != nil {
			return nil, fmt.Errorf("scan enum value: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		var n int
		if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM enums WHERE owner = ? AND name = ?`, owner, enum).Scan(&n); err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("enum %s.%s: %w", owner, enum, sql.ErrNoRows)
		}
	}
	return out, nil
}
