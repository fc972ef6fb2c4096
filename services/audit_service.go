package services

import (
	"encoding/json"
	"log"
	"meetings_app_go/models"

	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    string
	Username  string
	IPAddress string
	UserAgent string
}

// AuditContextForUser builds an AuditContext for an authenticated user
func AuditContextForUser(user *models.User, ipAddress, userAgent string) AuditContext {
	ctx := AuditContext{IPAddress: ipAddress, UserAgent: userAgent}
	if user != nil {
		ctx.UserID = user.ID
		ctx.Username = user.Username
	}
	return ctx
}

// LogAuditEvent records an audit log entry. Failures are logged and never
// surface to the caller.
func LogAuditEvent(
	db *gorm.DB,
	ctx AuditContext,
	action models.AuditAction,
	resourceType string,
	resourceID string,
	resourceName string,
	description string,
	oldValues interface{},
	newValues interface{},
) {
	var oldJSON, newJSON string

	if oldValues != nil {
		if bytes, err := json.Marshal(oldValues); err == nil {
			oldJSON = string(bytes)
		}
	}

	if newValues != nil {
		if bytes, err := json.Marshal(newValues); err == nil {
			newJSON = string(bytes)
		}
	}

	auditLog := models.AuditLog{
		UserID:       ptrIfNotEmpty(ctx.UserID),
		Username:     ctx.Username,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		ResourceName: resourceName,
		Action:       action,
		Description:  description,
		OldValues:    oldJSON,
		NewValues:    newJSON,
		IPAddress:    ctx.IPAddress,
		UserAgent:    ctx.UserAgent,
	}

	if err := db.Create(&auditLog).Error; err != nil {
		log.Printf("[AUDIT] Failed to create audit log: %v", err)
	}
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// GetResourceAuditHistory retrieves the audit history for a specific resource
func GetResourceAuditHistory(db *gorm.DB, resourceType, resourceID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
