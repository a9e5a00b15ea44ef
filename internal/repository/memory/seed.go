package memory

import "go-catalog-cache/internal/models"

// DemoProducts returns the sample catalog loaded when storage.seed is set
func DemoProducts() []models.Product {
	return []models.Product{
		{Name: "MacBook Pro 14", Category: "Electronics", Brand: "Apple", Price: 1999.99, Description: "M3 Pro, 18GB RAM"},
		{Name: "iPhone 15", Category: "Electronics", Brand: "Apple", Price: 999.00, Description: "128GB"},
		{Name: "Galaxy S24", Category: "Electronics", Brand: "Samsung", Price: 899.50, Description: "256GB"},
		{Name: "ThinkPad X1 Carbon", Category: "Electronics", Brand: "Lenovo", Price: 1649.00},
		{Name: "Air Max 90", Category: "Shoes", Brand: "Nike", Price: 129.99},
		{Name: "Ultraboost Light", Category: "Shoes", Brand: "Adidas", Price: 189.95},
		{Name: "Markus Office Chair", Category: "Furniture", Brand: "Ikea", Price: 229.00},
		{Name: "Billy Bookcase", Category: "Furniture", Brand: "Ikea", Price: 69.99},
	}
}
