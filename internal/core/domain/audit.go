package domain

import "time"

// AuditAction identifies the kind of operation an audit entry records.
type AuditAction string

const (
	ActionIngestCVE            AuditAction = "ingest_cve"
	ActionCreateAssessment     AuditAction = "create_assessment"
	ActionCreateReport         AuditAction = "create_report"
	ActionCreateExploitProject AuditAction = "create_exploit_project"
	ActionUpdateExploitProject AuditAction = "update_exploit_project"
)

// AuditEntry is one row of the audit trail. Persisted via GORM; the catalog
// itself stays in memory, only the trail survives restarts.
type AuditEntry struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	Timestamp time.Time   `json:"timestamp" gorm:"index"`
	Action    AuditAction `json:"action"`
	Target    string      `json:"target"`  // record ID or CVE ID the action touched
	Details   string      `json:"details"` // free text
}
