package initializers

import (
	"log"

	"github.com/uiaphotography/uia-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.CheckoutInfo{},
		&models.Shipping{},
		&models.ShippingInfo{},
	)
	log.Println("Database synced successfully.")
}
