package domain

// DashboardStats is the aggregate snapshot shown on the dashboard header.
type DashboardStats struct {
	TotalVulnerabilities int `json:"total_vulnerabilities"`
	CriticalCount        int `json:"critical_count"`
	AssessmentsToday     int `json:"assessments_today"`
	// SystemsProtected is configured, not derived from the catalog.
	SystemsProtected int `json:"systems_protected"`
}
