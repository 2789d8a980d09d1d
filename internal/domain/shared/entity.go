package shared

import "time"

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuditInfo holds actor provenance for a record. Every field is a weak
// reference to a user and may be nil.
type AuditInfo struct {
	CreatedBy *uint
	UpdatedBy *uint
	DeletedBy *uint
	DeletedAt *time.Time
}

// IsDeleted reports whether the record is soft deleted.
func (a AuditInfo) IsDeleted() bool {
	return a.DeletedAt != nil
}

// AuditedEntity is a BaseEntity carrying audit columns.
type AuditedEntity struct {
	BaseEntity
	AuditInfo
}
