package models

import "time"

// AuditAction enumerates the mutation kinds recorded in the audit trail.
type AuditAction string

const (
	// AuditInsert records the creation of a row.
	AuditInsert AuditAction = "INSERT"
	// AuditUpdate records the modification of a row.
	AuditUpdate AuditAction = "UPDATE"
	// AuditDelete records the removal of a row.
	AuditDelete AuditAction = "DELETE"
)

// AuditRecord is one immutable entry of the audit trail. One record is
// written per edge mutation, in the same transaction as the mutation it
// describes. Records are never updated or deleted.
type AuditRecord struct {
	// ID is the unique identifier for the audit record.
	ID uint64 `gorm:"primaryKey"`
	// AffectedTable is the name of the affected table (e.g., "role_modules").
	AffectedTable string `gorm:"size:100;not null;index"`
	// RecordKey identifies the affected row. For composite edges this is the
	// synthetic "roleId-nodeId" string.
	RecordKey string `gorm:"size:100;not null;index"`
	// Action is the mutation kind (INSERT, UPDATE or DELETE).
	Action AuditAction `gorm:"type:varchar(10);not null"`
	// ActorID is the user who performed the mutation. NULL when the mutation
	// ran outside an authenticated context (seeding, maintenance scripts).
	ActorID *uint64
	// Changes lists the fields that actually differ, with before/after
	// values. Populated for UPDATE only, NULL otherwise.
	Changes FieldChangeList `gorm:"type:text"`
	// CreatedAt is the timestamp when the record was written (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the AuditRecord model.
func (AuditRecord) TableName() string {
	return "audit_records"
}
