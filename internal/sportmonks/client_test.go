package sportmonks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, "test-token", 2, 5*time.Second, 0)
}

func typesBody(hasMore bool, ids ...int) string {
	data := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		data = append(data, map[string]any{
			"id":             id,
			"name":           fmt.Sprintf("Type %d", id),
			"code":           fmt.Sprintf("type-%d", id),
			"developer_name": fmt.Sprintf("TYPE_%d", id),
			"model_type":     "statistic",
		})
	}
	body, _ := json.Marshal(map[string]any{
		"data":       data,
		"pagination": map[string]any{"has_more": hasMore},
	})
	return string(body)
}

func TestFetchAllTypesFollowsPagination(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/core/types" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_token"); got != "test-token" {
			t.Errorf("api_token = %q, want test-token", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "2" {
			t.Errorf("per_page = %q, want 2", got)
		}
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		switch page {
		case "1":
			fmt.Fprint(w, typesBody(true, 1, 2))
		case "2":
			fmt.Fprint(w, typesBody(true, 3, 4))
		case "3":
			fmt.Fprint(w, typesBody(false, 5))
		default:
			t.Errorf("unexpected page %q", page)
			http.Error(w, "no such page", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).FetchAllTypes(context.Background())
	if err != nil {
		t.Fatalf("FetchAllTypes: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	if len(pages) != 3 {
		t.Fatalf("fetched pages %v, want 3 sequential pages", pages)
	}
	for i, rec := range records {
		if rec.ID != i+1 {
			t.Errorf("record %d has id %d, want %d", i, rec.ID, i+1)
		}
		if len(rec.Raw) == 0 {
			t.Errorf("record %d is missing its raw payload", i)
		}
	}
}

func TestFetchAllTypesParsesOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": [
				{"id": 1, "name": "Goals", "code": "goals", "developer_name": "GOALS", "model_type": "statistic", "stat_group": "offensive"},
				{"id": 2, "parent_id": 1, "name": "Home Goals", "code": "home-goals", "developer_name": "HOME_GOALS", "model_type": "statistic"}
			],
			"pagination": {"has_more": false}
		}`)
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).FetchAllTypes(context.Background())
	if err != nil {
		t.Fatalf("FetchAllTypes: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].ParentID != nil {
		t.Errorf("record 1 parent = %v, want nil", *records[0].ParentID)
	}
	if records[0].StatGroup == nil || *records[0].StatGroup != "offensive" {
		t.Errorf("record 1 stat_group = %v, want offensive", records[0].StatGroup)
	}
	if records[1].ParentID == nil || *records[1].ParentID != 1 {
		t.Errorf("record 2 parent = %v, want 1", records[1].ParentID)
	}
	if records[1].Group != nil {
		t.Errorf("record 2 group = %v, want nil", *records[1].Group)
	}
}

func TestFetchAllTypesAbortsOnPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			http.Error(w, `{"message":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, typesBody(true, 1, 2))
	}))
	defer srv.Close()

	records, err := newTestClient(srv.URL).FetchAllTypes(context.Background())
	if err == nil {
		t.Fatal("expected error on failing page")
	}
	if records != nil {
		t.Fatalf("got partial batch of %d records, want none", len(records))
	}
}

func TestFetchAllTypesAbortsOnMalformedPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": "oops"`)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FetchAllTypes(context.Background()); err == nil {
		t.Fatal("expected error on malformed page")
	}
}

func TestFetchAllTypesBoundsPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		fmt.Fprint(w, typesBody(true, page))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).FetchAllTypes(context.Background()); err == nil {
		t.Fatal("expected error when has_more never clears")
	}
}

func TestFetchAllTypesRequiresConfig(t *testing.T) {
	c := NewClient("", "", 0, time.Second, 0)
	if _, err := c.FetchAllTypes(context.Background()); err == nil {
		t.Fatal("expected error for unconfigured client")
	}
}
