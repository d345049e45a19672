package main

import (
	"github.com/shopspring/decimal"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

func item(sku, name, category, subcategory, description, price string, quantity, threshold int) catalogapp.SeedItemInput {
	return catalogapp.SeedItemInput{
		SKU:               sku,
		Name:              name,
		Category:          category,
		Subcategory:       subcategory,
		Description:       description,
		Price:             decimal.RequireFromString(price),
		Quantity:          quantity,
		LowStockThreshold: &threshold,
	}
}

// starterCatalog is the grocery assortment a fresh install starts with
var starterCatalog = []catalogapp.SeedItemInput{
	item("FR-BA-001", "Organic Bananas", "Fresh Produce", "Fruits", "Sweet bananas from certified organic farms.", "1.99", 120, 25),
	item("FR-VE-011", "Baby Spinach", "Fresh Produce", "Leafy Greens", "Washed baby spinach, salad ready.", "3.49", 80, 20),
	item("BA-BR-102", "Whole Wheat Bread", "Bakery", "Breads", "Whole wheat loaf baked every morning.", "4.25", 60, 15),
	item("DA-YO-208", "Greek Yogurt", "Dairy", "Yogurt", "Plain strained yogurt, high in protein.", "5.20", 70, 15),
	item("DA-CH-302", "Cheddar Cheese", "Dairy", "Cheese", "Aged sharp cheddar block.", "6.75", 55, 10),
	item("BE-SP-451", "Sparkling Water", "Beverages", "Water", "Unflavoured sparkling mineral water.", "1.50", 200, 40),
	item("BE-CO-499", "Cold Brew Coffee", "Beverages", "Coffee", "Bottled cold brew coffee.", "3.95", 90, 20),
	item("SN-NU-602", "Salted Almonds", "Snacks", "Nuts", "Roasted almonds with sea salt.", "7.10", 85, 20),
	item("SN-CH-618", "Potato Chips", "Snacks", "Chips", "Kettle-cooked potato chips.", "2.99", 140, 30),
	item("PA-SA-704", "Tomato Pasta Sauce", "Pantry", "Sauces", "Tomato and basil pasta sauce.", "4.80", 110, 25),
	item("PA-RI-733", "Basmati Rice", "Pantry", "Grains", "Long-grain basmati rice.", "11.99", 75, 15),
	item("SN-CH-882", "Dark Chocolate Bar", "Snacks", "Chocolate", "72% dark chocolate with cocoa nibs.", "3.60", 95, 20),
}
