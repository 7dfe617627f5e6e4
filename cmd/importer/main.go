package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/matst80/slask-catalog/pkg/types"
)

var apiUrl = flag.String("url", "http://localhost:8080", "catalog api base url")
var file = flag.String("file", "", "csv or json file with products")
var chunkSize = flag.Int("chunk", 500, "products per upload request")

func main() {
	flag.Parse()
	apiKey := os.Getenv("CATALOG_API_KEY")

	if *file == "" {
		log.Fatal("no input file given")
	}

	var items []*types.Product
	var err error
	if isCsv(*file) {
		items, err = readCsv(*file)
	} else {
		items, err = readJson(*file)
	}
	if err != nil {
		log.Fatalf("failed to read %s: %v", *file, err)
	}
	log.Printf("read %d products from %s", len(items), *file)

	client := NewUploadClient(*apiUrl, apiKey)
	ctx := context.Background()
	for start := 0; start < len(items); start += *chunkSize {
		end := min(start+*chunkSize, len(items))
		if err := client.UploadProducts(ctx, items[start:end]); err != nil {
			log.Fatalf("upload failed at chunk %d: %v", start / *chunkSize, err)
		}
		log.Printf("uploaded %d/%d", end, len(items))
	}
}

func isCsv(name string) bool {
	return len(name) > 4 && name[len(name)-4:] == ".csv"
}

func readJson(name string) ([]*types.Product, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items := []*types.Product{}
	err = json.NewDecoder(f).Decode(&items)
	return items, err
}
