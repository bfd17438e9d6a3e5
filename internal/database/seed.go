package database

import (
	"context"
	"fmt"

	"github.com/sjperalta/agent-portal-api/internal/models"
	"github.com/sjperalta/agent-portal-api/pkg/logger"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

var demoAgents = []models.Agent{
	{ID: "a1b2c3d4-e5f6-4a5b-8c9d-0e1f2a3b4c5d", FullName: "Sarah Johnson", Email: "sarah.johnson@realty.com", Phone: "(555) 123-4567", BrokerageName: "Premier Realty Group", LicenseNumber: strPtr("RE-2024-001"), Address: strPtr("123 Main Street, Suite 100, New York, NY 10001"), Status: models.AgentStatusActive},
	{ID: "b2c3d4e5-f6a7-5b6c-9d0e-1f2a3b4c5d6e", FullName: "Michael Chen", Email: "michael.chen@homefinders.com", Phone: "(555) 234-5678", BrokerageName: "HomeFinders Inc.", LicenseNumber: strPtr("RE-2024-002"), Address: strPtr("456 Oak Avenue, Los Angeles, CA 90001"), Status: models.AgentStatusActive},
	{ID: "c3d4e5f6-a7b8-6c7d-0e1f-2a3b4c5d6e7f", FullName: "Emily Rodriguez", Email: "emily.rodriguez@luxuryhomes.com", Phone: "(555) 345-6789", BrokerageName: "Luxury Homes International", LicenseNumber: strPtr("RE-2024-003"), Address: strPtr("789 Palm Drive, Miami, FL 33101"), Status: models.AgentStatusActive},
	{ID: "d4e5f6a7-b8c9-7d8e-1f2a-3b4c5d6e7f8a", FullName: "David Thompson", Email: "david.thompson@cityproperties.com", Phone: "(555) 456-7890", BrokerageName: "City Properties LLC", LicenseNumber: strPtr("RE-2024-004"), Address: strPtr("321 Urban Way, Chicago, IL 60601"), Status: models.AgentStatusActive},
	{ID: "e5f6a7b8-c9d0-8e9f-2a3b-4c5d6e7f8a9b", FullName: "Jennifer Williams", Email: "jennifer.williams@coastalrealty.com", Phone: "(555) 567-8901", BrokerageName: "Coastal Realty Partners", LicenseNumber: strPtr("RE-2024-005"), Address: strPtr("654 Beach Boulevard, San Diego, CA 92101"), Status: models.AgentStatusInactive},
}

var demoInspections = []models.Inspection{
	{ID: "i1a2b3c4-d5e6-4f7a-8b9c-0d1e2f3a4b5c", AgentID: "a1b2c3d4-e5f6-4a5b-8c9d-0e1f2a3b4c5d", InspectionDate: "2026-01-15", PropertyAddress: "100 Park Avenue, Apt 5A, New York, NY 10017", Status: models.InspectionStatusScheduled, InspectorName: "Robert Martinez", Notes: strPtr("Pre-purchase inspection for luxury condo")},
	{ID: "i2b3c4d5-e6f7-5a8b-9c0d-1e2f3a4b5c6d", AgentID: "a1b2c3d4-e5f6-4a5b-8c9d-0e1f2a3b4c5d", InspectionDate: "2025-12-20", PropertyAddress: "250 West 57th Street, Unit 12B, New York, NY 10019", Status: models.InspectionStatusCompleted, InspectorName: "Lisa Anderson", Notes: strPtr("Inspection completed. Minor repairs needed.")},
	{ID: "i7a8b9c0-d1e2-0f3a-4b5c-6d7e8f9a0b1c", AgentID: "d4e5f6a7-b8c9-7d8e-1f2a-3b4c5d6e7f8a", InspectionDate: "2026-02-01", PropertyAddress: "333 North Michigan Avenue, Chicago, IL 60601", Status: models.InspectionStatusScheduled, InspectorName: "Thomas Wright", Notes: strPtr("Commercial property inspection")},
	{ID: "i8b9c0d1-e2f3-1a4b-5c6d-7e8f9a0b1c2d", AgentID: "d4e5f6a7-b8c9-7d8e-1f2a-3b4c5d6e7f8a", InspectionDate: "2025-12-10", PropertyAddress: "1000 Lake Shore Drive, Chicago, IL 60611", Status: models.InspectionStatusCompleted, InspectorName: "Patricia Lee", Notes: strPtr("Lakefront condo - HVAC needs service")},
}

// Seed loads the demo agents and inspections into an empty database.
// It does nothing when any agent already exists.
func Seed(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Agent{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count agents: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.Info("Seeding database with demo data", "agents", len(demoAgents), "inspections", len(demoInspections))

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agents := make([]models.Agent, len(demoAgents))
		copy(agents, demoAgents)
		if err := tx.Create(&agents).Error; err != nil {
			return fmt.Errorf("failed to seed agents: %w", err)
		}

		inspections := make([]models.Inspection, len(demoInspections))
		copy(inspections, demoInspections)
		if err := tx.Omit("Agent").Create(&inspections).Error; err != nil {
			return fmt.Errorf("failed to seed inspections: %w", err)
		}
		return nil
	})
}
