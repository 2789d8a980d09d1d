package audit

import (
	"context"
	"fmt"
	"reflect"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	columnCreatedBy = "created_by"
	columnUpdatedBy = "updated_by"
	columnDeletedBy = "deleted_by"
)

// Register installs the create and update stamping callbacks on db
func Register(db *gorm.DB) error {
	if err := db.Callback().Create().Before("gorm:create").Register("audit:stamp_create", stampCreate); err != nil {
		return fmt.Errorf("register audit create callback: %w", err)
	}
	if err := db.Callback().Update().Before("gorm:update").Register("audit:stamp_update", stampUpdate); err != nil {
		return fmt.Errorf("register audit update callback: %w", err)
	}
	return nil
}

// stampCreate fills created_by and updated_by when the record has the
// columns, an actor is known and no value was set explicitly.
func stampCreate(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil {
		return
	}
	actor := actorPtr(db.Statement.Context)
	if actor == nil {
		return
	}
	for _, column := range []string{columnCreatedBy, columnUpdatedBy} {
		if field := db.Statement.Schema.LookUpField(column); field != nil {
			setIfZero(db.Statement.Context, db.Statement.ReflectValue, field, *actor)
		}
	}
}

// stampUpdate sets updated_by on Save/Updates. UpdateColumn(s) skip hooks and
// are left alone; the delete helpers rely on that.
func stampUpdate(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil || db.Statement.SkipHooks {
		return
	}
	actor := actorPtr(db.Statement.Context)
	if actor == nil {
		return
	}
	if db.Statement.Schema.LookUpField(columnUpdatedBy) != nil {
		db.Statement.SetColumn(columnUpdatedBy, actor, true)
	}
}

func setIfZero(ctx context.Context, rv reflect.Value, field *schema.Field, actor uint) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			setIfZero(ctx, reflect.Indirect(rv.Index(i)), field, actor)
		}
	case reflect.Struct:
		if _, zero := field.ValueOf(ctx, rv); zero {
			id := actor
			_ = field.Set(ctx, rv, &id)
		}
	}
}
