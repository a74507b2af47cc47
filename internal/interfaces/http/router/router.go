package router

import (
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/auth"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/config"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/infrastructure/logger"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/handler"
	"github.com/genuinocomercialatacadistaltda-boop/erp-demo-railway-sub014/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups the handlers wired into the router
type Handlers struct {
	System         *handler.SystemHandler
	Debtor         *handler.DebtorHandler
	Receivable     *handler.ReceivableHandler
	Boleto         *handler.BoletoHandler
	BankAccount    *handler.BankAccountHandler
	Card           *handler.CardHandler
	Reconciliation *handler.ReconciliationHandler
}

// New builds the gin engine with middleware and routes
func New(cfg *config.Config, jwtService *auth.JWTService, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(cfg.HTTP.TrustedProxies)
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		}),
		middleware.MaxBodySize(cfg.HTTP.MaxBodySize),
	)

	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuth(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Logger:     log,
	}))

	debtors := api.Group("/debtors")
	{
		debtors.POST("", h.Debtor.Create)
		debtors.GET("", h.Debtor.List)
		debtors.GET("/:id", h.Debtor.Get)
		debtors.PUT("/:id/credit-limit", h.Debtor.SetCreditLimit)
		debtors.PUT("/:id/active", h.Debtor.SetActive)
		debtors.GET("/:id/credit/verify", h.Debtor.VerifyCredit)
		debtors.POST("/:id/credit/recompute", h.Debtor.RecomputeCredit)
	}

	receivables := api.Group("/receivables")
	{
		receivables.POST("", h.Receivable.Create)
		receivables.GET("", h.Receivable.List)
		receivables.POST("/mark-overdue", h.Receivable.MarkOverdue)
		receivables.GET("/:id", h.Receivable.Get)
		receivables.DELETE("/:id", h.Receivable.Delete)
		receivables.POST("/:id/payments", h.Receivable.RecordPayment)
		receivables.POST("/:id/cancel", h.Receivable.Cancel)
	}

	boletos := api.Group("/boletos")
	{
		boletos.POST("", h.Boleto.Issue)
		boletos.GET("", h.Boleto.List)
		boletos.POST("/mark-overdue", h.Boleto.MarkOverdue)
		boletos.GET("/:id", h.Boleto.Get)
		boletos.POST("/:id/payments", h.Boleto.RegisterPayment)
		boletos.POST("/:id/cancel", h.Boleto.Cancel)
	}

	accounts := api.Group("/bank-accounts")
	{
		accounts.POST("", h.BankAccount.Open)
		accounts.GET("", h.BankAccount.List)
		accounts.GET("/:id", h.BankAccount.Get)
		accounts.POST("/:id/transactions", h.BankAccount.AppendTransaction)
		accounts.GET("/:id/transactions", h.BankAccount.ListTransactions)
		accounts.GET("/:id/consistency", h.BankAccount.CheckConsistency)
		accounts.POST("/:id/import", h.BankAccount.ImportStatement)
	}
	api.DELETE("/bank-transactions/:id", h.BankAccount.ReverseTransaction)

	cards := api.Group("/cards")
	{
		cards.POST("/fee-configs", h.Card.SetFeeConfig)
		cards.GET("/fee-configs", h.Card.ListFeeConfigs)
		cards.POST("/transactions", h.Card.CaptureSale)
		cards.GET("/transactions", h.Card.List)
		cards.GET("/transactions/due", h.Card.ListDue)
		cards.GET("/transactions/:id", h.Card.Get)
		cards.POST("/transactions/:id/settle", h.Card.Settle)
		cards.POST("/transactions/:id/cancel", h.Card.Cancel)
	}

	sessions := api.Group("/reconciliation/sessions")
	{
		sessions.POST("", h.Reconciliation.StartSession)
		sessions.GET("", h.Reconciliation.List)
		sessions.GET("/:id", h.Reconciliation.Get)
		sessions.POST("/:id/items", h.Reconciliation.AddItem)
		sessions.POST("/:id/auto-match", h.Reconciliation.AutoMatch)
		sessions.POST("/:id/items/:item_id/match", h.Reconciliation.MatchItem)
		sessions.POST("/:id/items/:item_id/exception", h.Reconciliation.MarkException)
		sessions.POST("/:id/close", h.Reconciliation.Close)
	}

	return engine
}
