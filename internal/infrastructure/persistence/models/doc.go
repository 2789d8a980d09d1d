// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel and AuditModel (created_by/updated_by/deleted_by + soft delete)
// - identity.go: users, user_store memberships, roles, permissions and their join tables
// - store.go: stores
// - contact.go: contacts
// - setting.go: per-store settings
package models
