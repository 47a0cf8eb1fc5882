// Package audit appends immutable records describing every assignment edge
// mutation. Records are written through the same transaction handle as the
// mutation they describe, so a rolled back mutation never leaves a stray
// audit entry behind.
package audit

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoIntranet-Admin/GoIntranet-Admin/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrTableEmpty is returned when the affected table name is empty.
	ErrTableEmpty = errors.New("audit table name cannot be empty")
)

// EdgeKey builds the synthetic record key of a composite assignment edge.
func EdgeKey(roleID, nodeID uint) string {
	return fmt.Sprintf("%d-%d", roleID, nodeID)
}

// Record appends one audit record. actorID may be nil for mutations that
// run outside an authenticated context. changes must be nil unless the
// action is UPDATE.
func Record(db *gorm.DB, table, recordKey string, action models.AuditAction, actorID *uint64, changes models.FieldChangeList) error {
	if db == nil {
		return ErrDBNil
	}

	if table == "" {
		return ErrTableEmpty
	}

	if action != models.AuditUpdate {
		changes = nil
	}

	rec := models.AuditRecord{
		AffectedTable: table,
		RecordKey:     recordKey,
		Action:        action,
		ActorID:       actorID,
		Changes:       changes,
	}

	return db.Create(&rec).Error
}

// List retrieves audit records newest first with offset/limit pagination.
func List(db *gorm.DB, offset, limit int) ([]models.AuditRecord, int64, error) {
	if db == nil {
		return nil, 0, ErrDBNil
	}

	var total int64
	if err := db.Model(&models.AuditRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.AuditRecord

	err := db.Order("id DESC").Offset(offset).Limit(limit).Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// ListByRecord retrieves the audit trail of one record key within a table,
// oldest first.
func ListByRecord(db *gorm.DB, table, recordKey string) ([]models.AuditRecord, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var records []models.AuditRecord

	err := db.Where("affected_table = ? AND record_key = ?", table, recordKey).
		Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}
