// Package youtube tests document the expected behavior of the YouTube client.
//
// External dependencies mocked:
// - YouTube Data API via httptest servers
//
// Test requirements (this file serves as documentation):
// - Client fetches video metadata and maps provider fields
// - Missing video yields absence, not an error
// - Comment pagination respects the result cap and page size arithmetic
// - Pagination stops when the continuation token is omitted
// - A failed page returns the comments accumulated so far
// - A 403 is reported as a quota/permission error with the provider message
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"golang.org/x/time/rate"
)

func newTestClient(baseURL string) *Client {
	return NewClient("test-api-key",
		WithBaseURL(baseURL),
		WithLimiter(rate.NewLimiter(rate.Inf, 1)),
	)
}

// threadItem builds a commentThreads item with n inline replies.
func threadItem(id string, replies int) map[string]interface{} {
	replyItems := make([]map[string]interface{}, 0, replies)
	for i := 0; i < replies; i++ {
		replyItems = append(replyItems, map[string]interface{}{
			"id": fmt.Sprintf("%s.reply%d", id, i),
			"snippet": map[string]interface{}{
				"authorDisplayName": "Reply Author",
				"authorChannelId":   map[string]interface{}{"value": "UCreply"},
				"textDisplay":       "a reply",
				"likeCount":         1,
				"publishedAt":       "2024-01-02T00:00:00Z",
				"updatedAt":         "2024-01-02T00:00:00Z",
				"parentId":          id,
			},
		})
	}

	item := map[string]interface{}{
		"snippet": map[string]interface{}{
			"topLevelComment": map[string]interface{}{
				"id": id,
				"snippet": map[string]interface{}{
					"authorDisplayName": "Top Author",
					"authorChannelId":   map[string]interface{}{"value": "UCtop"},
					"textDisplay":       "a comment",
					"likeCount":         5,
					"publishedAt":       "2024-01-01T00:00:00Z",
					"updatedAt":         "2024-01-01T00:00:00Z",
				},
			},
			"totalReplyCount": replies,
		},
	}
	if replies > 0 {
		item["replies"] = map[string]interface{}{"comments": replyItems}
	}
	return item
}

func TestClient_FetchVideoInfo(t *testing.T) {
	mockResponse := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"id": "video123",
				"snippet": map[string]interface{}{
					"title":        "Test Video",
					"description":  "A test video",
					"channelTitle": "Test Channel",
					"publishedAt":  "2024-01-01T00:00:00Z",
				},
				"statistics": map[string]interface{}{
					"viewCount":    "1000",
					"likeCount":    "50",
					"commentCount": "7",
				},
			},
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("expected /videos, got %q", r.URL.Path)
		}
		if key := r.URL.Query().Get("key"); key != "test-api-key" {
			t.Errorf("expected key=test-api-key, got %q", key)
		}
		if id := r.URL.Query().Get("id"); id != "video123" {
			t.Errorf("expected id=video123, got %q", id)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(mockResponse)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	info, err := client.FetchVideoInfo(context.Background(), "video123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info == nil {
		t.Fatal("expected video info, got nil")
	}

	if info.VideoID != "video123" {
		t.Errorf("expected video ID video123, got %q", info.VideoID)
	}
	if info.Title != "Test Video" {
		t.Errorf("expected title 'Test Video', got %q", info.Title)
	}
	if info.ChannelTitle != "Test Channel" {
		t.Errorf("expected channel 'Test Channel', got %q", info.ChannelTitle)
	}
	if info.ViewCount.String() != "1000" {
		t.Errorf("expected view count 1000, got %q", info.ViewCount)
	}
	if info.CommentCount.String() != "7" {
		t.Errorf("expected comment count 7, got %q", info.CommentCount)
	}
}

// TestClient_FetchVideoInfo_NotFound documents the absence contract: zero
// items from the provider is a soft null, not an error.
func TestClient_FetchVideoInfo_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	info, err := client.FetchVideoInfo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info != nil {
		t.Errorf("expected nil info for missing video, got %+v", info)
	}
}

func TestClient_FetchComments_SinglePage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/commentThreads" {
			t.Errorf("expected /commentThreads, got %q", r.URL.Path)
		}
		if part := r.URL.Query().Get("part"); part != "snippet,replies" {
			t.Errorf("expected part=snippet,replies, got %q", part)
		}
		if order := r.URL.Query().Get("order"); order != "time" {
			t.Errorf("expected order=time, got %q", order)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				threadItem("c1", 2),
				threadItem("c2", 0),
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	comments, err := client.FetchComments(context.Background(), "video123", 50, OrderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}

	if comments[0].CommentID != "c1" {
		t.Errorf("expected comment ID c1, got %q", comments[0].CommentID)
	}
	if comments[0].AuthorName != "Top Author" {
		t.Errorf("expected author 'Top Author', got %q", comments[0].AuthorName)
	}
	if comments[0].ReplyCount != 2 {
		t.Errorf("expected reply count 2, got %d", comments[0].ReplyCount)
	}
	if len(comments[0].Replies) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(comments[0].Replies))
	}
	if comments[0].Replies[0].ParentID != "c1" {
		t.Errorf("expected parent ID c1, got %q", comments[0].Replies[0].ParentID)
	}
	if len(comments[1].Replies) != 0 {
		t.Errorf("expected no replies on c2, got %d", len(comments[1].Replies))
	}
}

// TestClient_FetchComments_ResultCap documents the pagination arithmetic:
// with a cap of 150 the client must make ceil(150/100) = 2 requests, asking
// for 100 then 50 items, and return exactly 150 comments.
func TestClient_FetchComments_ResultCap(t *testing.T) {
	var requests int
	var pageSizes []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		pageSizes = append(pageSizes, r.URL.Query().Get("maxResults"))

		n, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		items := make([]map[string]interface{}, 0, n)
		for i := 0; i < n; i++ {
			items = append(items, threadItem(fmt.Sprintf("page%d-c%d", requests, i), 0))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items":         items,
			"nextPageToken": fmt.Sprintf("token-%d", requests),
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	comments, err := client.FetchComments(context.Background(), "video123", 150, OrderRelevance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(comments) != 150 {
		t.Errorf("expected exactly 150 comments, got %d", len(comments))
	}
	if requests != 2 {
		t.Errorf("expected 2 page requests, got %d", requests)
	}
	if len(pageSizes) == 2 && (pageSizes[0] != "100" || pageSizes[1] != "50") {
		t.Errorf("expected page sizes [100 50], got %v", pageSizes)
	}

	// Provider order is preserved: page 1 items precede page 2 items.
	if comments[0].CommentID != "page1-c0" {
		t.Errorf("expected first comment page1-c0, got %q", comments[0].CommentID)
	}
	if comments[149].CommentID != "page2-c49" {
		t.Errorf("expected last comment page2-c49, got %q", comments[149].CommentID)
	}
}

// TestClient_FetchComments_TokenExhausted documents true end of data: an
// omitted continuation token stops pagination even below the cap.
func TestClient_FetchComments_TokenExhausted(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++

		response := map[string]interface{}{
			"items": []map[string]interface{}{
				threadItem(fmt.Sprintf("page%d-c0", requests), 0),
			},
		}
		if requests == 1 {
			response["nextPageToken"] = "token-1"
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	comments, err := client.FetchComments(context.Background(), "video123", 500, OrderTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requests != 2 {
		t.Errorf("expected pagination to stop after 2 pages, got %d requests", requests)
	}
	if len(comments) != 2 {
		t.Errorf("expected 2 comments, got %d", len(comments))
	}
}

// TestClient_FetchComments_PartialOnError documents abnormal early
// termination: an error on page 2 returns page 1's comments with the error.
func TestClient_FetchComments_PartialOnError(t *testing.T) {
	var requests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				threadItem("c1", 0),
				threadItem("c2", 0),
			},
			"nextPageToken": "token-1",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	comments, err := client.FetchComments(context.Background(), "video123", 500, OrderTime)
	if err == nil {
		t.Fatal("expected error from failed second page")
	}

	if len(comments) != 2 {
		t.Errorf("expected the 2 comments from page 1, got %d", len(comments))
	}
}

func TestClient_FetchComments_QuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"code":    403,
				"message": "The request cannot be completed because you have exceeded your quota.",
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	comments, err := client.FetchComments(context.Background(), "video123", 100, OrderRelevance)
	if err == nil {
		t.Fatal("expected quota error")
	}
	if len(comments) != 0 {
		t.Errorf("expected no comments, got %d", len(comments))
	}

	var quotaErr *QuotaError
	if !errors.As(err, &quotaErr) {
		t.Fatalf("expected *QuotaError, got %T: %v", err, err)
	}
	if quotaErr.Message != "The request cannot be completed because you have exceeded your quota." {
		t.Errorf("expected provider message to be carried, got %q", quotaErr.Message)
	}
}
