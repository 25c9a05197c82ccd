package depot

import "gorm.io/gorm"

// ForAgent returns a GORM scope that filters by agent_id.
func ForAgent(agentID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("agent_id = ?", agentID)
	}
}
