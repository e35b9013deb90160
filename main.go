package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/uiaphotography/uia-api/checkout"
	"github.com/uiaphotography/uia-api/controllers"
	"github.com/uiaphotography/uia-api/initializers"
	"github.com/uiaphotography/uia-api/pricing"
	"github.com/uiaphotography/uia-api/routes"
	"github.com/uiaphotography/uia-api/utils"
)

func init() {
	initializers.LoadEnv()
	initializers.ConnectToDB()
	initializers.SyncDatabase()
}

func main() {
	engine := pricing.NewEngine(pricing.DefaultConfig())
	mailer := utils.NewResendMailer(initializers.DB)
	ledger := checkout.NewLedger(initializers.DB, engine, mailer)
	controllers.Configure(ledger, mailer)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:4200", "https://www.uiaphotography.com"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.DefaultRoutes(server)
	routes.ProductRoutes(server)
	routes.OrderRoutes(server)
	routes.CheckoutRoutes(server)
	server.Run()
}
