package models

import "time"

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalAgents          int64 `json:"totalAgents"`
	ActiveAgents         int64 `json:"activeAgents"`
	InspectionsThisMonth int64 `json:"inspectionsThisMonth"`
	DocumentsUploaded    int64 `json:"documentsUploaded"`
}

// Activity types
const (
	ActivityTypeUpload     = "upload"
	ActivityTypeInspection = "inspection"
	ActivityTypeAgent      = "agent"
)

// RecentActivity is one line of the admin activity feed.
type RecentActivity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	ActorRole   string    `json:"actorRole"`
}
