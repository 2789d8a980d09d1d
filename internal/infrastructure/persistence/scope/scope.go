// Package scope restricts tenant-scoped queries to a set of stores and fills
// store_id on create from the active store.
package scope

import (
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/storehub/backend/internal/domain/tenancy"
)

const storeColumn = "store_id"

// Stores limits a query to rows whose store_id is one of ids. An empty set
// matches nothing rather than everything.
func Stores(ids []uint) func(*gorm.DB) *gorm.DB {
	return StoresOn(storeColumn, ids)
}

// StoresOn is Stores for a qualified column, e.g. "contacts.store_id"
func StoresOn(column string, ids []uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", ids)
	}
}

// Register installs the store_id auto-fill create callback on db
func Register(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("store:before_create", fillStoreID); err != nil {
		return fmt.Errorf("register store callback: %w", err)
	}
	return nil
}

// fillStoreID sets store_id from the active store when the record has the
// column and it was left empty.
func fillStoreID(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil {
		return
	}
	field := db.Statement.Schema.LookUpField(storeColumn)
	if field == nil {
		return
	}
	storeID, ok := tenancy.ActiveStore(db.Statement.Context)
	if !ok {
		return
	}
	fill(db, db.Statement.ReflectValue, field, storeID)
}

func fill(db *gorm.DB, rv reflect.Value, field *schema.Field, storeID uint) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			fill(db, reflect.Indirect(rv.Index(i)), field, storeID)
		}
	case reflect.Struct:
		ctx := db.Statement.Context
		if _, zero := field.ValueOf(ctx, rv); !zero {
			return
		}
		var value any = storeID
		if field.FieldType.Kind() == reflect.Ptr {
			id := storeID
			value = &id
		}
		_ = db.AddError(field.Set(ctx, rv, value))
	}
}
