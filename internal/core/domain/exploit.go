package domain

import "time"

// ExploitProjectStatus tracks the review state of an exploit project.
type ExploitProjectStatus string

const (
	ExploitDraft     ExploitProjectStatus = "draft"
	ExploitTesting   ExploitProjectStatus = "testing"
	ExploitValidated ExploitProjectStatus = "validated"
	ExploitArchived  ExploitProjectStatus = "archived"
)

// ExploitProject is a research artifact tracked alongside the catalog.
// Creation is refused without an explicit ethical approval flag.
type ExploitProject struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	VulnerabilityType string               `json:"vulnerability_type"`
	TargetPlatform    string               `json:"target_platform"`
	Code              string               `json:"code"`
	Status            ExploitProjectStatus `json:"status"`
	Documentation     string               `json:"documentation,omitempty"`
	AuthorizedTargets []string             `json:"authorized_targets,omitempty"`
	TestingResults    map[string]any       `json:"testing_results,omitempty"`
	EthicalApproval   bool                 `json:"ethical_approval"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// ExploitProjectInput carries the fields for creating a project.
type ExploitProjectInput struct {
	Name              string
	VulnerabilityType string
	TargetPlatform    string
	Code              string
	Status            ExploitProjectStatus
	Documentation     string
	AuthorizedTargets []string
	TestingResults    map[string]any
	EthicalApproval   bool
}

// ExploitProjectPatch is a partial update; nil fields keep prior values.
type ExploitProjectPatch struct {
	Name              *string
	VulnerabilityType *string
	TargetPlatform    *string
	Code              *string
	Status            *ExploitProjectStatus
	Documentation     *string
	AuthorizedTargets []string
	TestingResults    map[string]any
}
