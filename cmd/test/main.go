package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

type TestClient struct {
	baseURL string
	client  *http.Client
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		client: &http.Client{
			// Generation calls can take a while.
			Timeout: 3 * time.Minute,
		},
	}
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the AdCraft server")
	testType := flag.String("test", "all", "Test type: all, health, state, metrics, wizard")
	site := flag.String("site", "https://www.example.com", "Website to analyze (wizard test)")
	location := flag.String("location", "London, UK", "Target location (wizard test)")
	flag.Parse()

	client := NewTestClient(*baseURL)

	printHeader("AdCraft Server - Smoke Tests")
	fmt.Printf("%sBase URL: %s%s\n\n", colorCyan, *baseURL, colorReset)

	switch *testType {
	case "all":
		client.runAllTests()
	case "health":
		exitOn(client.testHealthCheck())
	case "state":
		exitOn(client.testState())
	case "metrics":
		exitOn(client.testMetrics())
	case "wizard":
		exitOn(client.testWizard(*site, *location))
	default:
		printError(fmt.Sprintf("Unknown test type: %s", *testType))
		fmt.Println("\nAvailable tests: all, health, state, metrics, wizard")
		os.Exit(1)
	}
}

func exitOn(ok bool) {
	if !ok {
		os.Exit(1)
	}
}

// runAllTests runs the checks that never call the model.
func (tc *TestClient) runAllTests() {
	tests := []struct {
		name string
		fn   func() bool
	}{
		{"Health Check", tc.testHealthCheck},
		{"Campaign State", tc.testState},
		{"Metrics", tc.testMetrics},
	}

	passed := 0
	failed := 0

	for _, test := range tests {
		if test.fn() {
			passed++
		} else {
			failed++
		}
		fmt.Println()
	}

	printHeader("Test Summary")
	fmt.Printf("%sPassed: %d%s\n", colorGreen, passed, colorReset)
	fmt.Printf("%sFailed: %d%s\n", colorRed, failed, colorReset)
	fmt.Printf("Total: %d\n", passed+failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func (tc *TestClient) testHealthCheck() bool {
	printTestHeader("Testing Health Check Endpoint")

	status, body, err := tc.do(http.MethodGet, "/health", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if string(body) != "OK" {
		printError(fmt.Sprintf("Expected body 'OK', got '%s'", string(body)))
		return false
	}

	printSuccess("Health check passed")
	return true
}

func (tc *TestClient) testState() bool {
	printTestHeader("Testing Campaign State Endpoint")

	env, ok := tc.call(http.MethodGet, "/api/campaign", nil)
	if !ok {
		return false
	}

	var state map[string]interface{}
	if err := json.Unmarshal(env.Data, &state); err != nil {
		printError(fmt.Sprintf("Invalid state payload: %v", err))
		return false
	}
	for _, field := range []string{"step", "url", "location", "keywords", "adGroups", "isProcessing"} {
		if _, ok := state[field]; !ok {
			printError(fmt.Sprintf("Missing state field: %s", field))
			return false
		}
	}

	printSuccess(fmt.Sprintf("State is valid (step %v)", state["step"]))
	return true
}

func (tc *TestClient) testMetrics() bool {
	printTestHeader("Testing Metrics Endpoint")

	status, body, err := tc.do(http.MethodGet, "/metrics", nil)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return false
	}
	if status != http.StatusOK {
		printError(fmt.Sprintf("Expected status 200, got %d", status))
		return false
	}
	if !strings.Contains(string(body), "adcraft_http_requests_total") {
		printError("Metrics output has no adcraft_http_requests_total series")
		return false
	}

	printSuccess("Metrics are exposed")
	return true
}

// testWizard walks the whole wizard against the live model. It resets the
// server's campaign first.
func (tc *TestClient) testWizard(site, location string) bool {
	printTestHeader("Testing Full Wizard")
	fmt.Printf("%sSite:%s %s  %sLocation:%s %s\n\n", colorCyan, colorReset, site, colorCyan, colorReset, location)

	steps := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"Reset", http.MethodPost, "/api/campaign/reset", nil},
		{"Set input", http.MethodPut, "/api/campaign/input", map[string]string{"url": site, "location": location}},
		{"Analyze", http.MethodPost, "/api/campaign/analyze", nil},
		{"Generate ad groups", http.MethodPost, "/api/campaign/adgroups", nil},
	}

	var last envelope
	for _, s := range steps {
		fmt.Printf("%s %s\n", s.method, s.path)
		start := time.Now()
		env, ok := tc.call(s.method, s.path, s.body)
		if !ok {
			return false
		}
		printSuccess(fmt.Sprintf("%s (%s)", s.name, time.Since(start).Round(time.Millisecond)))
		last = env
	}

	var state struct {
		Keywords []json.RawMessage `json:"keywords"`
		AdGroups []struct {
			Name      string   `json:"name"`
			Keywords  []string `json:"keywords"`
			Headlines []string `json:"headlines"`
		} `json:"adGroups"`
	}
	if err := json.Unmarshal(last.Data, &state); err != nil {
		printError(fmt.Sprintf("Invalid state payload: %v", err))
		return false
	}
	if len(state.AdGroups) == 0 {
		printError("No ad groups were generated")
		return false
	}

	fmt.Printf("\n%sAd Groups:%s\n", colorGreen, colorReset)
	fmt.Println(strings.Repeat("=", 80))
	for _, g := range state.AdGroups {
		fmt.Printf("%s  (%d keywords, %d headlines)\n", g.Name, len(g.Keywords), len(g.Headlines))
	}
	fmt.Println(strings.Repeat("=", 80))

	status, body, err := tc.do(http.MethodGet, "/api/campaign/export.csv", nil)
	if err != nil || status != http.StatusOK {
		printError(fmt.Sprintf("Export failed: status %d, err %v", status, err))
		return false
	}
	rows := strings.Count(string(body), "\n")
	printSuccess(fmt.Sprintf("Exported %d CSV rows from %d keywords", rows, len(state.Keywords)))
	return true
}

// call sends a JSON request and checks the response envelope.
func (tc *TestClient) call(method, path string, body interface{}) (envelope, bool) {
	var env envelope

	status, data, err := tc.do(method, path, body)
	if err != nil {
		printError(fmt.Sprintf("Request failed: %v", err))
		return env, false
	}
	if err := json.Unmarshal(data, &env); err != nil {
		printError(fmt.Sprintf("Invalid JSON response: %v", err))
		printJSON(data)
		return env, false
	}
	if status != http.StatusOK || !env.Success {
		printError(fmt.Sprintf("Expected status 200, got %d: %s", status, env.Message))
		return env, false
	}
	return env, true
}

func (tc *TestClient) do(method, path string, body interface{}) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, tc.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, err
}

func printHeader(text string) {
	fmt.Printf("\n%s%s%s\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
	fmt.Printf("%s= %s =%s\n", colorBlue, text, colorReset)
	fmt.Printf("%s%s%s\n\n", colorBlue, strings.Repeat("=", len(text)+4), colorReset)
}

func printTestHeader(text string) {
	fmt.Printf("%s[TEST] %s%s\n", colorCyan, text, colorReset)
	fmt.Println(strings.Repeat("-", 80))
}

func printSuccess(text string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, text, colorReset)
}

func printError(text string) {
	fmt.Printf("%s✗ %s%s\n", colorRed, text, colorReset)
}

func printJSON(data []byte) {
	var prettyJSON bytes.Buffer
	if err := json.Indent(&prettyJSON, data, "", "  "); err == nil {
		fmt.Printf("\n%sResponse:%s\n%s\n", colorYellow, colorReset, prettyJSON.String())
	}
}
