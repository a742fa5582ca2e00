package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildContext(t *testing.T) {
	focus := &Product{
		ProductName: "Desk Lamp",
		Description: "LED lamp",
		Price:       1299.5,
		Category:    []interface{}{map[string]interface{}{"name": "Lighting"}, "Home"},
		Stock:       0,
		Bestseller:  true,
		Age:         "adult",
	}
	list := []Product{{ProductName: "Chair", Price: 50, Stock: 3, Category: "Furniture", Rating: 4.5}}

	out := BuildContext(focus, list)

	assert.Contains(t, out, "Product Name: Desk Lamp\n")
	assert.Contains(t, out, "Price: ₹1,299.50\n")
	assert.Contains(t, out, "Category: Lighting, Home\n")
	assert.Contains(t, out, "Availability: Out of Stock\n")
	assert.Contains(t, out, "Bestseller: Yes\n")
	assert.Contains(t, out, "Available Products:\n- **Chair**\n")
	assert.Contains(t, out, "  Availability: In Stock\n")
	assert.Contains(t, out, "  Rating: 4.5\n")
}

func TestBuildContext_Empty(t *testing.T) {
	assert.Empty(t, BuildContext(nil, nil))
}
