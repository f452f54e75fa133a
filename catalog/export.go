package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/StatisMike/gdext/bindgen"
	"github.com/StatisMike/gdext/schema"
)

// Export replaces the catalog contents with the classes, edges, methods and
// enums of p in one transaction.
func (c *Catalog) Export(ctx context.Context, p *bindgen.Plan) error {
	digest, err := p.Model.Digest()
	if err != nil {
		return fmt.Errorf("digesting model: %w", err)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin export: %w", err)
	}
	if err := export(ctx, tx, p, digest); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit export: %w", err)
	}
	log.Infof("exported %d classes to %s", len(p.Classes), c.path)
	return nil
}

func export(ctx context.Context, tx *sql.Tx, p *bindgen.Plan, digest [32]byte) error {
	for _, table := range []string{"enum_values", "enums", "methods", "edges", "classes", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"api_version":  p.Model.Header.String(),
		"full_name":    p.Model.Header.FullName,
		"build_config": p.Config,
		"precision":    p.Model.Precision.String(),
		"digest":       fmt.Sprintf("%x", digest),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("insert meta %s: %w", k, err)
		}
	}

	if err := exportClasses(ctx, tx, p); err != nil {
		return err
	}
	if err := exportEdges(ctx, tx, p); err != nil {
		return err
	}

	enums, err := newEnumWriter(ctx, tx, p)
	if err != nil {
		return err
	}
	defer enums.close()
	for _, e := range p.Model.GlobalEnums {
		if err := enums.write(ctx, "", e); err != nil {
			return err
		}
	}
	for _, b := range p.Model.Builtins {
		for _, e := range b.Enums {
			if err := enums.write(ctx, b.Name, e); err != nil {
				return err
			}
		}
	}
	for _, cp := range p.Classes {
		for _, e := range cp.Class.Enums {
			if err := enums.write(ctx, cp.Class.Name, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func exportClasses(ctx context.Context, tx *sql.Tx, p *bindgen.Plan) error {
	classStmt, err := tx.PrepareContext(ctx, `INSERT INTO classes
  (name, ord, go_name, parent, api_type, memory, refcounted, instantiable, singleton)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare class insert: %w", err)
	}
	defer classStmt.Close()

	methodStmt, err := tx.PrepareContext(ctx, `INSERT INTO methods
  (class, ord, name, hash, is_virtual, is_static, is_vararg, is_const, return_type, arg_count)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare method insert: %w", err)
	}
	defer methodStmt.Close()

	for i, cp := range p.Classes {
		c := cp.Class
		parent := ""
		if cp.Parent != nil {
			parent = cp.Parent.Class.Name
		}
		if _, err := classStmt.ExecContext(ctx, c.Name, i, cp.GoName, parent, c.APIType, cp.Memory.String(),
			boolInt(c.IsRefCounted), boolInt(c.IsInstantiable), boolInt(cp.Singleton)); err != nil {
			return fmt.Errorf("insert class %s: %w", c.Name, err)
		}

		for j, m := range c.Methods {
			var hash sql.NullInt64
			if m.HasHash {
				hash = sql.NullInt64{Int64: m.Hash, Valid: true}
			}
			ret := ""
			if m.Return != nil {
				ret = m.Return.Type
			}
			if _, err := methodStmt.ExecContext(ctx, c.Name, j, m.Name, hash, boolInt(m.IsVirtual), boolInt(m.IsStatic),
				boolInt(m.IsVararg), boolInt(m.IsConst), ret, len(m.Args)); err != nil {
				return fmt.Errorf("insert method %s.%s: %w", c.Name, m.Name, err)
			}
		}
		log.Debugf("exported %s with %d methods", c.Name, len(c.Methods))
	}
	return nil
}

func exportEdges(ctx context.Context, tx *sql.Tx, p *bindgen.Plan) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (derived, base, distance) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare edge insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range p.Edges() {
		if _, err := stmt.ExecContext(ctx, e.Derived, e.Base, e.Distance); err != nil {
			return fmt.Errorf("insert edge %s -> %s: %w", e.Derived, e.Base, err)
		}
	}
	return nil
}

type enumWriter struct {
	plan      *bindgen.Plan
	enumStmt  *sql.Stmt
	valueStmt *sql.Stmt
}

func newEnumWriter(ctx context.Context, tx *sql.Tx, p *bindgen.Plan) (*enumWriter, error) {
	enumStmt, err := tx.PrepareContext(ctx, `INSERT INTO enums (owner, name, go_name, is_bitfield) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare enum insert: %w", err)
	}
	valueStmt, err := tx.PrepareContext(ctx, `INSERT INTO enum_values (owner, enum, ord, name, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = enumStmt.Close()
		return nil, fmt.Errorf("prepare enum value insert: %w", err)
	}
	return &enumWriter{plan: p, enumStmt: enumStmt, valueStmt: valueStmt}, nil
}

func (w *enumWriter) write(ctx context.Context, owner string, e schema.Enum) error {
	if _, err := w.enumStmt.ExecContext(ctx, owner, e.Name, w.plan.EnumGoName(owner, e.Name), boolInt(e.IsBitfield)); err != nil {
		return fmt.Errorf("insert enum %s.%s: %w", owner, e.Name, err)
	}
	for i, v := range e.Values {
		if _, err := w.valueStmt.ExecContext(ctx, owner, e.Name, i, v.Name, v.Value); err != nil {
			return fmt.Errorf("insert enum value %s.%s.%s: %w", owner, e.Name, v.Name, err)
		}
	}
	return nil
}

func (w *enumWriter) close() {
	_ = w.enumStmt.Close()
	_ = w.valueStmt.Close()
}
