package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lukman83/giftlist-preview/internal/models"
	"github.com/lukman83/giftlist-preview/internal/preview"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Previewer is what the tools need from preview.Service.
type Previewer interface {
	Preview(ctx context.Context, rawURL string) *models.Preview
	PreviewMany(ctx context.Context, urls []string) []*models.Preview
}

const maxBatchURLs = 20

func registerTools(s *server.MCPServer, svc Previewer) {
	// preview_url
	previewTool := mcp.NewTool("preview_url",
		mcp.WithDescription("Fetch a product page and extract title, image, price and currency for a wish-list item"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the product page"),
		),
	)
	s.AddTool(previewTool, handlePreviewURL(svc))

	// preview_urls
	batchTool := mcp.NewTool("preview_urls",
		mcp.WithDescription(fmt.Sprintf("Preview up to %d product URLs concurrently", maxBatchURLs)),
		mcp.WithArray("urls",
			mcp.Required(),
			mcp.Description("Absolute http(s) URLs"),
			mcp.WithStringItems(),
		),
	)
	s.AddTool(batchTool, handlePreviewURLs(svc))

	// clean_url
	cleanTool := mcp.NewTool("clean_url",
		mcp.WithDescription("Remove marketing/tracking query parameters (utm_*, fbclid, gclid, ...) from a URL"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute URL"),
		),
	)
	s.AddTool(cleanTool, handleCleanURL)
}

func handlePreviewURL(svc Previewer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawURL := request.GetString("url", "")
		if err := validateHTTPURL(rawURL); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, _ := json.MarshalIndent(svc.Preview(ctx, rawURL), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handlePreviewURLs(svc Previewer) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		urls := request.GetStringSlice("urls", nil)
		if len(urls) == 0 {
			return mcp.NewToolResultError("urls is required"), nil
		}
		if len(urls) > maxBatchURLs {
			return mcp.NewToolResultError(fmt.Sprintf("at most %d urls per call", maxBatchURLs)), nil
		}
		for _, u := range urls {
			if err := validateHTTPURL(u); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}

		data, _ := json.MarshalIndent(svc.PreviewMany(ctx, urls), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleCleanURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL := request.GetString("url", "")
	if rawURL == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	cleaned, err := preview.CleanTrackingParams(rawURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid url: %v", err)), nil
	}
	return mcp.NewToolResultText(cleaned), nil
}

func validateHTTPURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("url is required")
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid url: %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must use http or https: %q", rawURL)
	}
	return nil
}
