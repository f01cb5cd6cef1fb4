// recast-mcp is a stdio MCP server that exposes the Recast clone pipeline
// as a single tool, so agent clients can request website clones through the
// running HTTP API.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// cloneRequest mirrors the Recast API request model.
type cloneRequest struct {
	TargetURL      string `json:"target_url"`
	FetchMode      string `json:"fetch_mode,omitempty"`
	RemoveOverlays bool   `json:"remove_overlays,omitempty"`
}

// cloneResponse mirrors the Recast API response model.
type cloneResponse struct {
	Success    bool   `json:"success"`
	ClonedHTML string `json:"cloned_html"`
	Message    string `json:"message"`
	Detail     string `json:"detail"`
	Metadata   *struct {
		Title     string `json:"title"`
		SourceURL string `json:"source_url"`
	} `json:"metadata"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("RECAST_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}

	s := server.NewMCPServer(
		"recast",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	cloneTool := mcp.NewTool("clone_website",
		mcp.WithDescription("Render a web page with a headless browser and generate an aesthetic, self-contained HTML clone of it using a hosted generation model."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the web page to clone"),
		),
		mcp.WithString("fetch_mode",
			mcp.Description("How to fetch the page: 'browser' (default, renders JavaScript), 'http' (fast, no JS), or 'auto' (browser with HTTP fallback)"),
			mcp.Enum("browser", "http", "auto"),
		),
		mcp.WithBoolean("remove_overlays",
			mcp.Description("Strip cookie banners and popups before snapshotting"),
		),
	)

	s.AddTool(cloneTool, handleCloneWebsite(apiURL))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleCloneWebsite(apiURL string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 300 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		reqBody := cloneRequest{
			TargetURL:      url,
			FetchMode:      request.GetString("fetch_mode", ""),
			RemoveOverlays: request.GetBool("remove_overlays", false),
		}

		body, err := json.Marshal(reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal request: %v", err)), nil
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+"/clone_website", bytes.NewReader(body))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to create request: %v", err)), nil
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(httpReq)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response: %v", err)), nil
		}

		var cloneResp cloneResponse
		if err := json.Unmarshal(respBody, &cloneResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !cloneResp.Success {
			errMsg := "clone failed"
			if cloneResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", cloneResp.Error.Code, cloneResp.Error.Message)
			} else if cloneResp.Detail != "" {
				errMsg = cloneResp.Detail
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var result string
		if cloneResp.Metadata != nil {
			result = fmt.Sprintf("Title: %s\nSource: %s\n\n", cloneResp.Metadata.Title, cloneResp.Metadata.SourceURL)
		}
		result += cloneResp.ClonedHTML

		return mcp.NewToolResultText(result), nil
	}
}
