package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is an uploaded PDF tied to one agent and optionally one inspection.
// The binary payload lives in blob storage under StoragePath.
type Document struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	AgentID      string    `gorm:"size:36;not null;index" json:"agentId"`
	InspectionID *string   `gorm:"size:36;index" json:"inspectionId,omitempty"`
	Title        string    `gorm:"not null" json:"title"`
	Category     string    `gorm:"size:30;not null;index" json:"category"`
	FileName     string    `gorm:"not null" json:"fileName"`
	FileSize     int64     `gorm:"not null" json:"fileSize"`
	MimeType     string    `gorm:"size:100;not null" json:"mimeType"`
	StoragePath  string    `gorm:"not null" json:"storagePath"`
	UploadedBy   string    `gorm:"size:36;not null" json:"uploadedBy"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`

	// Associations
	Agent      *Agent      `gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE" json:"-"`
	Inspection *Inspection `gorm:"foreignKey:InspectionID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}

// BeforeCreate assigns the id and defaults
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Category == "" {
		d.Category = DocumentCategoryOther
	}
	return nil
}

// Document category constants
const (
	DocumentCategoryW9               = "W9"
	DocumentCategoryAgreement        = "Agreement"
	DocumentCategoryInsurance        = "Insurance"
	DocumentCategoryInspectionReport = "InspectionReport"
	DocumentCategoryOther            = "Other"
)

// ValidDocumentCategory reports whether c is a known category.
func ValidDocumentCategory(c string) bool {
	switch c {
	case DocumentCategoryW9, DocumentCategoryAgreement, DocumentCategoryInsurance,
		DocumentCategoryInspectionReport, DocumentCategoryOther:
		return true
	}
	return false
}

// InspectionSummary is the inspection excerpt embedded in document responses.
type InspectionSummary struct {
	ID              string `json:"id"`
	PropertyAddress string `json:"propertyAddress"`
	InspectionDate  string `json:"inspectionDate"`
	Status          string `json:"status"`
}

// DocumentResponse is the JSON response format for documents
type DocumentResponse struct {
	Document
	Inspection *InspectionSummary `json:"inspection,omitempty"`
}

// ToResponse converts Document to DocumentResponse
func (d *Document) ToResponse() DocumentResponse {
	resp := DocumentResponse{Document: *d}
	if d.Inspection != nil {
		resp.Inspection = &InspectionSummary{
			ID:              d.Inspection.ID,
			PropertyAddress: d.Inspection.PropertyAddress,
			InspectionDate:  d.Inspection.InspectionDate,
			Status:          d.Inspection.Status,
		}
	}
	return resp
}

// DocumentFilter narrows a document search.
type DocumentFilter struct {
	AgentID      string
	InspectionID string
	Category     string
}
