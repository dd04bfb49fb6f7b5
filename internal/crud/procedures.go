package crud

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// Persistable is implemented by entities the CRUD procedures can persist.
type Persistable interface {
	EntityName() string
	PrimaryKey() any
}

// AssociationClearer is implemented by entities whose child associations must
// be wiped before an update replaces them or a delete removes the parent row.
type AssociationClearer interface {
	ClearAssociations(tx *gorm.DB) error
}

// CreateProcedure inserts obj in one transaction. Association targets that
// already exist are left untouched; only join rows are written for them.
func CreateProcedure(ctx context.Context, db *gorm.DB, obj Persistable) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(obj).Error
	})
	if err != nil {
		return TranslateIntegrityError(err, obj.EntityName())
	}
	logCrud("Creating", obj)
	return nil
}

// UpdateProcedure persists obj over its stored row. The entity's child
// associations are cleared first so the replacement set never merges with
// stale rows across the foreign-key boundary.
func UpdateProcedure(ctx context.Context, db *gorm.DB, obj Persistable) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearer, ok := obj.(AssociationClearer); ok {
			if err := clearer.ClearAssociations(tx); err != nil {
				return err
			}
		}
		return tx.Save(obj).Error
	})
	if err != nil {
		return TranslateIntegrityError(err, obj.EntityName())
	}
	logCrud("Updating", obj)
	return nil
}

// DeleteProcedure removes obj, clearing its child associations first.
func DeleteProcedure(ctx context.Context, db *gorm.DB, obj Persistable) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clearer, ok := obj.(AssociationClearer); ok {
			if err := clearer.ClearAssociations(tx); err != nil {
				return err
			}
		}
		return tx.Delete(obj).Error
	})
	if err != nil {
		return TranslateIntegrityError(err, obj.EntityName())
	}
	logCrud("Deleting", obj)
	return nil
}

// Dependent is one child-row collection inserted alongside a main record.
type Dependent struct {
	// Rows is a pointer to the slice of rows to insert; empty collections
	// are skipped.
	Rows any
	// Model is the model whose prior rows are deleted in update mode.
	Model any
	// ParentColumn carries the main record's id in the dependent table;
	// defaults to the main id column.
	ParentColumn string
}

// UpsertParams drives one batched insert of a main record plus its dependent
// collections, committed as a single unit.
type UpsertParams struct {
	// Record is the main row (or pointer to a slice of rows) to insert.
	Record any
	// IDColumn is the primary key column of the main table; defaults to "id".
	IDColumn string
	// IDs are the main ids affected, used to delete prior dependent rows in
	// update mode.
	IDs []string
	// Dependents maps a relation name to its child-row collection.
	Dependents map[string]Dependent
	// DoUpdate turns the main insert into an insert-or-update-on-conflict,
	// excluding immutable columns from the update clause, and deletes prior
	// dependent rows first.
	DoUpdate bool
	// AfterDelete runs inside the transaction after dependent rows are
	// deleted (update mode only).
	AfterDelete func(tx *gorm.DB, ids []string) error
	// AfterInsert runs inside the transaction after all inserts.
	AfterInsert func(tx *gorm.DB) error
}

// Columns never overwritten by the conflict-update clause.
var immutableColumns = map[string]bool{
	"created_at": true,
	"created_by": true,
}

// UpsertProcedure inserts a main record and its dependent collections in one
// transaction. In update mode it first deletes prior dependent rows for the
// affected ids, then upserts the main record keyed on the id column.
func UpsertProcedure(ctx context.Context, db *gorm.DB, entity string, p UpsertParams) error {
	idColumn := p.IDColumn
	if idColumn == "" {
		idColumn = "id"
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.DoUpdate {
			for name, dep := range p.Dependents {
				column := dep.ParentColumn
				if column == "" {
					column = idColumn
				}
				if err := tx.Where(fmt.Sprintf("%s IN ?", column), p.IDs).Delete(dep.Model).Error; err != nil {
					return fmt.Errorf("deleting prior %s rows: %w", name, err)
				}
			}
			if p.AfterDelete != nil {
				if err := p.AfterDelete(tx, p.IDs); err != nil {
					return err
				}
			}
		}

		stmt := tx.Omit(clause.Associations)
		if p.DoUpdate {
			columns, err := updatableColumns(tx, p.Record, idColumn)
			if err != nil {
				return err
			}
			stmt = stmt.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: idColumn}},
				DoUpdates: clause.AssignmentColumns(columns),
			})
		}
		if err := stmt.Create(p.Record).Error; err != nil {
			return err
		}

		for name, dep := range p.Dependents {
			if reflect.Indirect(reflect.ValueOf(dep.Rows)).Len() == 0 {
				logrus.WithField("relation", name).Debug("sub-object collection is empty, skipping insert")
				continue
			}
			if err := tx.Create(dep.Rows).Error; err != nil {
				return fmt.Errorf("inserting %s rows: %w", name, err)
			}
		}

		if p.AfterInsert != nil {
			return p.AfterInsert(tx)
		}
		return nil
	})
	if err != nil {
		return TranslateIntegrityError(err, entity)
	}
	logrus.WithFields(logrus.Fields{"entity": entity, "ids": p.IDs}).Debug("Upserting done")
	return nil
}

// updatableColumns lists the record's columns minus the id column and the
// audit-immutable ones, for the on-conflict update clause.
func updatableColumns(db *gorm.DB, record any, idColumn string) ([]string, error) {
	parsed, err := schema.Parse(record, &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, err
	}
	var columns []string
	for _, field := range parsed.Fields {
		if field.DBName == "" || field.DBName == idColumn || immutableColumns[field.DBName] {
			continue
		}
		columns = append(columns, field.DBName)
	}
	return columns, nil
}

func logCrud(operation string, obj Persistable) {
	logrus.WithFields(logrus.Fields{
		"entity": obj.EntityName(),
		"id":     obj.PrimaryKey(),
	}).Debugf("%s done", operation)
}
