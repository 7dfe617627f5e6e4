package main

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/matst80/slask-catalog/pkg/types"
)

// UploadClient talks to the catalog admin api using the static api key.
type UploadClient struct {
	httpClient *resty.Client
}

func NewUploadClient(baseUrl, apiKey string) *UploadClient {
	client := resty.New().
		SetBaseURL(baseUrl).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", apiKey)
	return &UploadClient{httpClient: client}
}

func (c *UploadClient) UploadProducts(ctx context.Context, items []*types.Product) error {
	resp, err := c.httpClient.NewRequest().
		SetContext(ctx).
		SetBody(items).
		Post("/admin/products")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("upload rejected: %s %s", resp.Status(), resp.String())
	}
	return nil
}
