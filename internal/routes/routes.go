package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	handler "github.com/suriya1233/smart-reconciliation-system/internal/handlers"
	"github.com/suriya1233/smart-reconciliation-system/internal/repository"
	"github.com/suriya1233/smart-reconciliation-system/internal/services/audit"
	service "github.com/suriya1233/smart-reconciliation-system/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, log *zap.Logger) error {
	transactionRepo := repository.NewTransactionRepository(db)
	ruleRepo := repository.NewRuleRepository(db)
	resultRepo := repository.NewResultRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	if err := ruleRepo.EnsureDefaults(); err != nil {
		return err
	}

	auditSvc := audit.NewService(auditRepo, log)
	reconSvc := service.NewService(db, transactionRepo, ruleRepo, resultRepo, auditSvc, log)

	reconHandler := handler.NewReconciliationHandler(reconSvc, log)
	rulesHandler := handler.NewRulesHandler(ruleRepo, auditSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	recon := api.Group("/reconciliation")
	recon.POST("/upload", reconHandler.Upload)
	recon.GET("/results", reconHandler.ListResults)
	recon.GET("/results/:id", reconHandler.GetResult)
	recon.PUT("/results/:id/correct", reconHandler.CorrectResult)
	recon.POST("/results/:id/approve", reconHandler.ApproveResult)
	recon.POST("/results/:id/reject", reconHandler.RejectResult)
	recon.GET("/statistics", reconHandler.GetStatistics)
	recon.GET("/statistics/historical", reconHandler.GetHistoricalStatistics)
	recon.GET("/:batchId", reconHandler.GetBatchProgress)
	recon.GET("/:batchId/stats", reconHandler.GetBatchStats)

	rules := api.Group("/rules")
	{
		rules.GET("", rulesHandler.List)
		rules.POST("", rulesHandler.Create)
		rules.PUT("/:id", rulesHandler.Update)
		rules.DELETE("/:id", rulesHandler.Delete)
	}

	auditGroup := api.Group("/audit")
	{
		auditGroup.GET("", auditHandler.List)
		auditGroup.GET("/record/:recordId", auditHandler.ListByRecord)
	}

	return nil
}
