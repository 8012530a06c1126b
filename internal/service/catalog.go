package service

import (
	"restaurante/models"

	"github.com/shopspring/decimal"
)

func unid(name string, qty int64) models.Requirement {
	return models.Requirement{Name: name, Unit: "unid", Quantity: decimal.NewFromInt(qty)}
}

// DefaultCatalog is seeded into an empty menus table.
func DefaultCatalog() []models.MenuItem {
	price := decimal.NewFromInt
	return []models.MenuItem{
		models.MustMenuItem(0, "Papas Fritas", price(500), "IMG/papas.png", []models.Requirement{
			unid("Papas", 2),
		}),
		models.MustMenuItem(0, "Pepsi", price(1100), "IMG/bebida.png", []models.Requirement{
			unid("Pepsi", 1),
		}),
		models.MustMenuItem(0, "Completo", price(1800), "IMG/completo.png", []models.Requirement{
			unid("Vienesa", 1),
			unid("Pan de completo", 1),
			unid("Tomate", 1),
			unid("Palta", 1),
		}),
		models.MustMenuItem(0, "Hamburguesa", price(3500), "IMG/hamburguesa.png", []models.Requirement{
			unid("Pan de hamburguesa", 1),
			unid("Lamina de queso", 1),
			unid("Churrasco de carne", 1),
		}),
		models.MustMenuItem(0, "Panqueques", price(2000), "IMG/panqueque.png", []models.Requirement{
			unid("Panqueques", 2),
			unid("Manjar", 1),
			unid("Azúcar flor", 1),
		}),
		models.MustMenuItem(0, "Pollo Frito", price(2800), "IMG/pollo.png", []models.Requirement{
			unid("Presa de pollo", 1),
			unid("Harina", 2),
			unid("Aceite", 1),
		}),
		models.MustMenuItem(0, "Ensalada Mixta", price(1500), "IMG/ensalada.png", []models.Requirement{
			unid("Lechuga", 1),
			unid("Tomate", 1),
			unid("Zanahoria", 1),
		}),
	}
}
