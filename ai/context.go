package ai

import (
	"fmt"
	"strings"

	"github.com/leekchan/accounting"
)

// Product is the product shape the storefront sends with a prompt. Fields
// are free-form because the client may send populated or raw documents.
type Product struct {
	ProductName string      `json:"productName"`
	Description string      `json:"description"`
	Price       float64     `json:"price"`
	Category    interface{} `json:"category"`
	Stock       int         `json:"stock"`
	Gender      string      `json:"gender"`
	Bestseller  bool        `json:"bestseller"`
	Age         string      `json:"age"`
	Color       string      `json:"color"`
	Brand       string      `json:"brand"`
	Material    string      `json:"material"`
	Rating      float64     `json:"rating"`
}

var rupees = accounting.Accounting{Symbol: "₹", Precision: 2, Thousand: ",", Decimal: "."}

func availability(stock int) string {
	if stock > 0 {
		return "In Stock"
	}
	return "Out of Stock"
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func category(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []interface{}:
		parts := make([]string, 0, len(c))
		for _, item := range c {
			if m, ok := item.(map[string]interface{}); ok {
				if name, ok := m["name"].(string); ok {
					parts = append(parts, name)
					continue
				}
			}
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(c)
	}
}

// BuildContext renders the focused product (if any) followed by the list of
// available products.
func BuildContext(product *Product, products []Product) string {
	var b strings.Builder

	if product != nil {
		fmt.Fprintf(&b, "Product Name: %s\n", product.ProductName)
		fmt.Fprintf(&b, "Description: %s\n", product.Description)
		fmt.Fprintf(&b, "Price: %s\n", rupees.FormatMoney(product.Price))
		fmt.Fprintf(&b, "Category: %s\n", category(product.Category))
		fmt.Fprintf(&b, "Availability: %s\n", availability(product.Stock))
		fmt.Fprintf(&b, "Gender: %s\n", product.Gender)
		fmt.Fprintf(&b, "Bestseller: %s\n", yesNo(product.Bestseller))
		fmt.Fprintf(&b, "Age Group: %s\n\n", product.Age)
	}

	if len(products) > 0 {
		b.WriteString("Available Products:\n")
		for i, p := range products {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "- **%s**\n", p.ProductName)
			fmt.Fprintf(&b, "  Description: %s\n", p.Description)
			fmt.Fprintf(&b, "  Price: %s\n", rupees.FormatMoney(p.Price))
			fmt.Fprintf(&b, "  Category: %s\n", category(p.Category))
			fmt.Fprintf(&b, "  Availability: %s\n", availability(p.Stock))
			fmt.Fprintf(&b, "  Gender: %s\n", p.Gender)
			fmt.Fprintf(&b, "  Bestseller: %s\n", yesNo(p.Bestseller))
			fmt.Fprintf(&b, "  Age Group: %s\n", p.Age)
			fmt.Fprintf(&b, "  Color: %s\n", p.Color)
			fmt.Fprintf(&b, "  Brand: %s\n", p.Brand)
			fmt.Fprintf(&b, "  Material: %s\n", p.Material)
			fmt.Fprintf(&b, "  Rating: %g\n", p.Rating)
		}
	}
	return b.String()
}
