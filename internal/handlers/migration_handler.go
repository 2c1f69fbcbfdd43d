package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"contas/internal/services"
)

// MigrationHandler handles the one-time legacy recurring-expense migration.
type MigrationHandler struct {
	migrationService services.MigrationServicer
}

// NewMigrationHandler creates a new MigrationHandler.
func NewMigrationHandler(migrationService services.MigrationServicer) *MigrationHandler {
	return &MigrationHandler{migrationService: migrationService}
}

// RunMigration handles running the legacy migration batch.
func (h *MigrationHandler) RunMigration(c *gin.Context) {
	result, err := h.migrationService.Migrate()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}

// GetMigrationStatus handles the read-only migration-needed check.
func (h *MigrationHandler) GetMigrationStatus(c *gin.Context) {
	status, err := h.migrationService.CheckStatus()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

// RollbackMigration handles the full destructive undo of the migration.
func (h *MigrationHandler) RollbackMigration(c *gin.Context) {
	if err := h.migrationService.Rollback(); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Migration rolled back"})
}
