package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutesCommandWritesExport(t *testing.T) {
	dir := t.TempDir()
	routesFile := filepath.Join(dir, "routes.json5")
	require.NoError(t, os.WriteFile(routesFile, []byte(`[
		// comments are allowed
		{path: '/users', methods: ['GET', 'POST']},
		{path: '/users/:id', methods: ['delete']},
	]`), 0o644))
	output := filepath.Join(dir, "export.json")

	rootCmd.SetArgs([]string{
		"routes",
		"--env", filepath.Join(dir, "missing.env"),
		"--routes", routesFile,
		"--output", output,
		"--base-url", "https://api.example.com",
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc struct {
		Resources []struct {
			Type   string `json:"_type"`
			Name   string `json:"name"`
			Method string `json:"method"`
			URL    string `json:"url"`
		} `json:"resources"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	var requests []string
	for _, r := range doc.Resources {
		if r.Type == "request" {
			requests = append(requests, r.Method+" "+r.URL)
		}
	}
	assert.Equal(t, []string{
		"GET https://api.example.com/users",
		"POST https://api.example.com/users",
		"DELETE https://api.example.com/users/:id",
	}, requests)
}
