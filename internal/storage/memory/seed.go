package memory

import (
	"github.com/shopspring/decimal"

	"github.com/vladislavdragonenkov/erp/internal/domain"
)

// safetySheet разделяется несколькими продуктами линейки.
var safetySheet = []float64{0.1, 0.2, 0.3, 0.4}

// SeedProducts возвращает демонстрационный каталог. Блоки данных интернируются
// через interner, одинаковые блоки разных продуктов становятся одним экземпляром.
func SeedProducts(interner domain.BlobInterner) []domain.Product {
	return []domain.Product{
		domain.NewProduct("Brawndo The Thirst Mutilator", decimal.RequireFromString("4.99"), domain.ProductData{
			Manufacturing: []float64{12, 7.5, 3.25, 1},
			Recipe:        []float64{0.65, 0.2, 0.1, 0.05},
			Marketing:     []float64{9, 9, 9, 9},
			Safety:        safetySheet,
			Licensing:     []float64{2005, 1},
		}, interner),
		domain.NewProduct("Brawndo Electrolyte Crop Spray", decimal.RequireFromString("1299.00"), domain.ProductData{
			Manufacturing: []float64{120, 75, 32.5, 10},
			Recipe:        []float64{0.9, 0.05, 0.05},
			Marketing:     []float64{9, 9, 9, 9},
			Safety:        safetySheet,
			Licensing:     []float64{2005, 2},
		}, interner),
		domain.NewProduct("Brawndo Zero", decimal.RequireFromString("5.49"), domain.ProductData{
			Manufacturing: []float64{12, 7.5, 3.25, 1},
			Recipe:        []float64{0.7, 0.2, 0.1},
			Marketing:     []float64{3, 1, 4, 1, 5},
			Safety:        safetySheet,
		}, interner),
		domain.NewProduct("Electrolyte Salts", decimal.RequireFromString("2.00"), domain.ProductData{
			Recipe: []float64{1},
			Safety: []float64{0.5, 0.5},
		}, interner),
	}
}

// SeedCustomers возвращает демонстрационных клиентов с разным набором каналов связи.
func SeedCustomers() []domain.Customer {
	return []domain.Customer{
		{
			ID:        1,
			FirstName: "Joe",
			LastName:  "Bauers",
			Email:     "joe@example.com",
			Phone:     "+61 400 000 001",
		},
		{
			ID:        2,
			FirstName: "Rita",
			LastName:  "Doe",
			Address:   "1 George St",
			Suburb:    "Sydney",
			State:     "NSW",
			Postcode:  "2000",
			Phone:     "+61 400 000 002",
		},
		{
			ID:           3,
			FirstName:    "Frito",
			LastName:     "Pendejo",
			Merchandiser: "Upgrayedd",
			BusinessName: "Costco Law School",
			Email:        "frito@example.com",
		},
		{
			ID:           4,
			FirstName:    "Beef",
			LastName:     "Supreme",
			PigeonCoopID: "coop-17",
		},
		{
			ID:        5,
			FirstName: "Lexus",
			Phone:     "+61 400 000 005",
		},
	}
}
