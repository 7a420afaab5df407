// Command smoke drives a running server through the journal and summary
// routes and exits non-zero on the first failure.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/agenthands/jai/internal/auth"
)

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

func main() {
	_ = godotenv.Load()

	baseURL := os.Getenv("SMOKE_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	token := os.Getenv("SMOKE_TOKEN")
	if token == "" {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			fail("set SMOKE_TOKEN or JWT_SECRET")
		}
		owner := fmt.Sprintf("smoke-%d", time.Now().Unix())
		var err error
		token, err = auth.NewJWT(secret, auth.WithIssuer("jai")).Issue(owner, "", time.Hour)
		if err != nil {
			fail("issue token: %v", err)
		}
	}

	c := &client{baseURL: baseURL, token: token, http: &http.Client{Timeout: 60 * time.Second}}

	fmt.Println("1. Creating entry...")
	var created struct {
		Entry struct {
			ID string `json:"id"`
		} `json:"entry"`
	}
	c.do(http.MethodPost, "/api/journal", map[string]any{
		"title":   "Smoke test",
		"content": "Walked by the river and felt calm after a stressful week.",
		"mood":    "happy",
		"tags":    []string{"smoke"},
	}, http.StatusCreated, &created)
	id := created.Entry.ID
	fmt.Println("PASSED: create", id)

	fmt.Println("2. Listing entries...")
	var list struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	c.do(http.MethodGet, "/api/journal?tag=smoke&search=river", nil, http.StatusOK, &list)
	if list.Pagination.Total < 1 {
		fail("list: expected the new entry, got total %d", list.Pagination.Total)
	}
	fmt.Println("PASSED: list")

	fmt.Println("3. Summarizing...")
	var sum struct {
		Summary string `json:"summary"`
	}
	c.do(http.MethodPost, "/api/ai/summarize", map[string]any{
		"text":    "Walked by the river and felt calm after a stressful week.",
		"entryId": id,
	}, http.StatusOK, &sum)
	fmt.Println("PASSED: summarize:", sum.Summary)

	fmt.Println("4. Reading stored summary...")
	c.do(http.MethodGet, "/api/ai/summary/"+id, nil, http.StatusOK, nil)
	fmt.Println("PASSED: get summary")

	fmt.Println("5. Deleting entry...")
	c.do(http.MethodDelete, "/api/journal/"+id, nil, http.StatusOK, nil)
	c.do(http.MethodGet, "/api/journal/"+id, nil, http.StatusNotFound, nil)
	fmt.Println("PASSED: delete")
}

func (c *client) do(method, path string, payload any, want int, out any) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fail("encode %s %s: %v", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		fail("build %s %s: %v", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		fail("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != want {
		fail("%s %s: status %d, want %d: %s", method, path, resp.StatusCode, want, respBody)
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			fail("decode %s %s: %v", method, path, err)
		}
	}
}

func fail(format string, args ...any) {
	fmt.Printf("FAILED: "+format+"\n", args...)
	os.Exit(1)
}
