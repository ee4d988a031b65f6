package model

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

type Product struct {
	ID       string  `firestore:"id" json:"id" yaml:"id"`
	Name     string  `firestore:"name" json:"name" yaml:"name"`
	Price    float64 `firestore:"price" json:"price" yaml:"price"`
	Image    string  `firestore:"image" json:"image" yaml:"image"`
	Hint     string  `firestore:"hint" json:"hint" yaml:"hint"`
	Category string  `firestore:"category" json:"category" yaml:"category"`
}

//go:embed fallback_products.yaml
var fallbackProductsYAML []byte

// FallbackProducts returns the catalog served when the products collection
// is empty or unreachable. Each call returns a fresh slice.
func FallbackProducts() []Product {
	products, err := loadFallbackProducts()
	if err != nil {
		panic(err)
	}
	return append([]Product(nil), products...)
}

var loadFallbackProducts = sync.OnceValues(func() ([]Product, error) {
	return parseProducts(fallbackProductsYAML)
})

func parseProducts(data []byte) ([]Product, error) {
	var doc struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fallback products: %w", err)
	}
	return doc.Products, nil
}
