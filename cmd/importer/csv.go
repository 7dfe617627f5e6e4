package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/matst80/slask-catalog/pkg/types"
)

// readCsv parses a product csv with a header row:
// sku,title,brand,category,subCategory,price,stock,images
// images is a |-separated list of urls and may be empty.
func readCsv(name string) ([]*types.Product, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*types.Product{}, nil
	}

	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.TrimSpace(name)] = i
	}
	get := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := make([]*types.Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		sku := get(row, "sku")
		if sku == "" {
			continue
		}
		price, _ := strconv.Atoi(get(row, "price"))
		stock, _ := strconv.Atoi(get(row, "stock"))
		images := []string{}
		if raw := get(row, "images"); raw != "" {
			images = strings.Split(raw, "|")
		}
		items = append(items, &types.Product{
			Sku:         sku,
			Title:       get(row, "title"),
			Brand:       get(row, "brand"),
			Category:    get(row, "category"),
			SubCategory: get(row, "subCategory"),
			Price:       price,
			Stock:       stock,
			ImageUrls:   images,
		})
	}
	return items, nil
}
