package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bamboobot/pkg/logx"
)

func testWikiClient(srv *httptest.Server) *WikiClient {
	c := NewWikiClient(logx.Nop())
	c.baseURL = srv.URL
	c.httpc = srv.Client()
	return c
}

func TestWikiSummaryDirectHit(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"type": "standard",
			"title": "대나무",
			"extract": "대나무는 벼과의 식물이다.",
			"content_urls": {"desktop": {"page": "https://ko.wikipedia.org/wiki/%EB%8C%80%EB%82%98%EB%AC%B4"}},
			"thumbnail": {"source": "https://upload.example/thumb.jpg"}
		}`))
	}))
	defer srv.Close()

	sum, err := testWikiClient(srv).Summary(context.Background(), "대나무")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Title != "대나무" || sum.Extract == "" {
		t.Fatalf("summary = %+v", sum)
	}
	if sum.ThumbnailURL != "https://upload.example/thumb.jpg" {
		t.Fatalf("thumbnail = %q", sum.ThumbnailURL)
	}
}

func TestWikiSummaryFallsBackToSearch(t *testing.T) {
	t.Parallel()

	var summaryCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/rest_v1/page/summary/"):
			summaryCalls++
			if summaryCalls == 1 {
				// Exact title miss.
				w.WriteHeader(http.StatusNotFound)
				return
			}
			if !strings.HasSuffix(r.URL.Path, "/Go (programming language)") {
				t.Errorf("fallback summary path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"type":"standard","title":"Go (programming language)","extract":"Go is a language."}`))
		case r.URL.Path == "/w/api.php":
			if got := r.URL.Query().Get("srsearch"); got != "golang" {
				t.Errorf("srsearch = %q", got)
			}
			w.Write([]byte(`{"query":{"search":[{"title":"Go (programming language)"},{"title":"Gopher"}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	sum, err := testWikiClient(srv).Summary(context.Background(), "golang")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Title != "Go (programming language)" {
		t.Fatalf("title = %q", sum.Title)
	}
	if sum.PageURL == "" {
		t.Fatal("fallback summary must synthesize a page URL")
	}
}

func TestWikiSummaryNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/w/api.php" {
			w.Write([]byte(`{"query":{"search":[]}}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testWikiClient(srv).Summary(context.Background(), "zzz-no-such-doc")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNamuExists(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); !strings.Contains(got, "Mozilla/5.0") {
			t.Errorf("User-Agent = %q, want browser identity", got)
		}
		if strings.Contains(r.URL.EscapedPath(), "%EB%8C%80%EB%82%98%EB%AC%B4") {
			w.Write([]byte("<html>ok</html>"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewNamuClient(logx.Nop())
	c.baseURL = srv.URL
	c.httpc = srv.Client()

	ok, err := c.Exists(context.Background(), "대나무")
	if err != nil || !ok {
		t.Fatalf("Exists(대나무) = %v, %v; want true", ok, err)
	}
	ok, err = c.Exists(context.Background(), "없는문서")
	if err != nil || ok {
		t.Fatalf("Exists(없는문서) = %v, %v; want false", ok, err)
	}
}

func TestNamuURLs(t *testing.T) {
	t.Parallel()

	c := NewNamuClient(logx.Nop())
	if got := c.DocumentURL("대나무 숲"); got != "https://namu.wiki/w/%EB%8C%80%EB%82%98%EB%AC%B4%20%EC%88%B2" {
		t.Fatalf("DocumentURL = %q", got)
	}
	if got := c.SearchURL("대나무 숲"); !strings.HasPrefix(got, "https://namu.wiki/search?q=") {
		t.Fatalf("SearchURL = %q", got)
	}
}
