package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 30 * time.Second}
	testDate   string
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== SlimCoach E2E Smoke Test ===")
	fmt.Println()

	// Load config from env
	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	// Test date (today)
	testDate = time.Now().Format("2006-01-02")

	// Run smoke tests
	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"Start Chat Session", testStartChatSession},
		{"Send Chat Message", testSendChatMessage},
		{"List Chat Messages", testListChatMessages},
		{"Upsert Weight", testUpsertWeight},
		{"Log Meal", testLogMeal},
		{"Log Calories", testLogCalories},
		{"Log Mood", testLogMood},
		{"Get Settings", testGetSettings},
		{"Tracker Summary", testTrackerSummary},
		{"Pending Notification", testPendingNotification},
		{"Upload Document", testUploadDocument},
		{"List Documents", testListDocuments},
		{"Download Document", testDownloadDocument},
		{"Create Report (CSV)", testCreateReportCSV},
		{"List Reports", testListReports},
		{"Download Report", testDownloadReport},
		{"Delete Document", testDeleteDocument},
		{"Delete Report", testDeleteReport},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	req, err := http.NewRequest("GET", apiBase+"/healthz", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// testDevAuth exchanges nothing for a dev token. If SMOKE_TOKEN was
// provided we keep it; otherwise the dev endpoint must be enabled on
// the server (AUTH_MODE=dev or none).
func testDevAuth() error {
	if token != "" {
		return nil
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/auth/dev", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access_token")
	}

	token = result.AccessToken
	return nil
}

func testStartChatSession() error {
	body, err := json.Marshal(map[string]interface{}{"resume": false})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/chat/session", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Messages) == 0 {
		return fmt.Errorf("no greeting messages in session response")
	}

	return nil
}

func testSendChatMessage() error {
	body, err := json.Marshal(map[string]interface{}{
		"content": "I weighed 154 lbs this morning",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/chat/messages", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		AssistantMessage struct {
			Content string `json:"content"`
		} `json:"assistant_message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.AssistantMessage.Content == "" {
		return fmt.Errorf("empty assistant reply")
	}

	return nil
}

func testListChatMessages() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/chat/messages", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Messages) == 0 {
		return fmt.Errorf("no messages in history")
	}

	return nil
}

func testUpsertWeight() error {
	return postJSON("/v1/weights", map[string]interface{}{
		"weight": 154,
		"unit":   "lbs",
		"date":   testDate,
	}, http.StatusOK)
}

func testLogMeal() error {
	return postJSON("/v1/meals", map[string]interface{}{
		"name":      "grilled chicken breast",
		"quantity":  "200 g",
		"meal_type": "lunch",
		"date":      testDate,
	}, http.StatusOK)
}

func testLogCalories() error {
	return postJSON("/v1/calories", map[string]interface{}{
		"kind": "consumed",
		"kcal": 650,
		"date": testDate,
	}, http.StatusOK)
}

func testLogMood() error {
	return postJSON("/v1/moods", map[string]interface{}{
		"note": "feeling good after the walk",
		"date": testDate,
	}, http.StatusOK)
}

func testGetSettings() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/settings", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func testTrackerSummary() error {
	url := fmt.Sprintf("%s/v1/tracker/summary?date=%s", apiBase, testDate)
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Date   string `json:"date"`
		Weight *struct {
			Lbs int `json:"lbs"`
		} `json:"weight"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.Date != testDate {
		return fmt.Errorf("summary date is %q, want %q", result.Date, testDate)
	}
	if result.Weight == nil {
		return fmt.Errorf("summary has no weight after upsert")
	}

	return nil
}

func testPendingNotification() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/notifications/pending", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	// Notification may legitimately be null (everything already logged
	// for the current window), so only validate the envelope decodes.
	var result struct {
		Notification *struct {
			Type string `json:"type"`
		} `json:"notification"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	return nil
}

func testUploadDocument() error {
	var b bytes.Buffer
	writer := multipart.NewWriter(&b)

	if err := writer.WriteField("title", "Smoke Test Plan"); err != nil {
		return err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="plan.txt"`)
	header.Set("Content-Type", "text/plain")
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte("Week 1: cut evening snacks.\nWeek 2: add a daily walk.\n")); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/documents", &b)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.ID == "" {
		return fmt.Errorf("empty document id")
	}

	createdIDs["document"] = result.ID
	return nil
}

func testListDocuments() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/documents", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Documents []struct {
			ID string `json:"id"`
		} `json:"documents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Documents) == 0 {
		return fmt.Errorf("no documents found")
	}

	return nil
}

func testDownloadDocument() error {
	docID := createdIDs["document"]
	if docID == "" {
		return fmt.Errorf("no document ID to download")
	}

	url := fmt.Sprintf("%s/v1/documents/%s/download", apiBase, docID)
	data, err := fetchBlob(url)
	if err != nil {
		return err
	}
	if !strings.Contains(string(data), "Week 1") {
		return fmt.Errorf("downloaded document does not contain the uploaded text")
	}

	return nil
}

func testCreateReportCSV() error {
	fromDate := time.Now().AddDate(0, 0, -7).Format("2006-01-02")

	body, err := json.Marshal(map[string]interface{}{
		"format": "csv",
		"from":   fromDate,
		"to":     testDate,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+"/v1/reports", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.SizeBytes < 10 {
		return fmt.Errorf("report size is %d bytes (too small)", result.SizeBytes)
	}

	createdIDs["report"] = result.ID
	return nil
}

func testListReports() error {
	req, err := http.NewRequest("GET", apiBase+"/v1/reports", nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	var result struct {
		Reports []struct {
			ID string `json:"id"`
		} `json:"reports"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Reports) == 0 {
		return fmt.Errorf("no reports found")
	}

	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	url := fmt.Sprintf("%s/v1/reports/%s/download", apiBase, reportID)
	data, err := fetchBlob(url)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(data), "date,") {
		return fmt.Errorf("downloaded report does not look like CSV")
	}

	return nil
}

func testDeleteDocument() error {
	return deleteResource("/v1/documents/" + createdIDs["document"])
}

func testDeleteReport() error {
	return deleteResource("/v1/reports/" + createdIDs["report"])
}

// ---- helpers ----

// postJSON POSTs a JSON body and checks only the status code.
func postJSON(path string, payload map[string]interface{}, wantStatus int) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", apiBase+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

// fetchBlob downloads a binary endpoint, accepting either a direct 200
// serve (local blob mode) or a 302 redirect to a presigned URL (S3 mode).
func fetchBlob(url string) ([]byte, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	addAuth(req)

	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		if len(data) < 10 {
			return nil, fmt.Errorf("blob too small: %d bytes", len(data))
		}
		return data, nil

	case http.StatusFound:
		location := resp.Header.Get("Location")
		if location == "" {
			return nil, fmt.Errorf("redirect without Location header")
		}

		getReq, err := http.NewRequest("GET", location, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create redirect request: %w", err)
		}
		getResp, err := client.Do(getReq)
		if err != nil {
			return nil, fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()

		if getResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(getResp.Body, 4096))
			return nil, fmt.Errorf("redirect failed: status=%d body=%s", getResp.StatusCode, string(body))
		}

		data, err := io.ReadAll(getResp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read redirected body: %w", err)
		}
		return data, nil

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
}

func deleteResource(path string) error {
	if strings.HasSuffix(path, "/") {
		return fmt.Errorf("no resource ID to delete")
	}

	req, err := http.NewRequest("DELETE", apiBase+path, nil)
	if err != nil {
		return err
	}
	addAuth(req)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}

	return nil
}

func addAuth(req *http.Request) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
