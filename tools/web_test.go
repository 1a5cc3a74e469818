package tools

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearchWeb(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		if r.URL.Query().Get("q") == "nothing" {
			fmt.Fprint(w, `{"RelatedTopics":[]}`)
			return
		}
		fmt.Fprint(w, `{"RelatedTopics":[
			{"Text":"Go is a language","FirstURL":"https://duckduckgo.com/Go"},
			{"Name":"Category","Topics":[]},
			{"Text":"Gopher mascot","FirstURL":"https://duckduckgo.com/Gopher"},
			{"Text":"Third","FirstURL":"https://duckduckgo.com/Third"}
		]}`)
	}))
	defer srv.Close()

	deps := testDeps(t, nil)
	deps.SearchURL = srv.URL
	r := newRegistry(t, deps)

	res := call(t, r, "search_web", map[string]any{"query": "golang", "num_results": float64(3)})
	want := "• Go is a language\n  URL: https://duckduckgo.com/Go\n\n• Gopher mascot\n  URL: https://duckduckgo.com/Gopher"
	if res.IsError || res.Text() != want {
		t.Fatalf("got %q, want %q", res.Text(), want)
	}
	for _, p := range []string{"q=golang", "format=json", "no_html=1"} {
		if !strings.Contains(gotQuery, p) {
			t.Errorf("query %q missing %q", gotQuery, p)
		}
	}

	res = call(t, r, "search_web", map[string]any{"query": "nothing"})
	if res.Text() != "No results found" {
		t.Fatalf("got %q", res.Text())
	}
}

func TestSearchWeb_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>rate limited</html>")
	}))
	defer srv.Close()
	deps := testDeps(t, nil)
	deps.SearchURL = srv.URL
	r := newRegistry(t, deps)

	res := call(t, r, "search_web", map[string]any{"query": "golang"})
	if res.IsError || !strings.HasPrefix(res.Text(), "Search failed: ") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestScrapeWebpage(t *testing.T) {
	long := strings.Repeat("word ", 2000)
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		switch r.URL.Path {
		case "/long":
			fmt.Fprintf(w, "<html><body><p>%s</p></body></html>", long)
		case "/gone":
			http.Error(w, "gone", http.StatusGone)
		default:
			fmt.Fprint(w, `<html><head><title>Title</title><style>body{color:red}</style>
<script>var secret = 1;</script></head>
<body><h1>Hello</h1>
   <p>First   paragraph.</p><p>Second</p></body></html>`)
		}
	}))
	defer srv.Close()
	r := newRegistry(t, testDeps(t, nil))

	res := call(t, r, "scrape_webpage", map[string]any{"url": srv.URL + "/"})
	if res.Text() != "Title Hello First paragraph. Second" {
		t.Fatalf("got %q", res.Text())
	}
	if gotUA != userAgent {
		t.Fatalf("User-Agent = %q", gotUA)
	}

	res = call(t, r, "scrape_webpage", map[string]any{"url": srv.URL + "/long"})
	if !strings.HasSuffix(res.Text(), "...") || len([]rune(res.Text())) != scrapeLimit+3 {
		t.Fatalf("unexpected truncation: %d runes", len([]rune(res.Text())))
	}

	res = call(t, r, "scrape_webpage", map[string]any{"url": srv.URL + "/gone"})
	if res.IsError || res.Text() != "Failed to scrape webpage: HTTP 410" {
		t.Fatalf("unexpected result: %+v", res)
	}

	res = call(t, r, "scrape_webpage", map[string]any{"url": "javascript:alert(1)"})
	if !res.IsError {
		t.Fatalf("want validation error, got %+v", res)
	}
}

func TestGetWeather(t *testing.T) {
	t.Setenv("WEATHER_API_KEY", "")
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{"q": q.Get("q"), "appid": q.Get("appid"), "units": q.Get("units")}
		if q.Get("q") == "Atlantis" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"cod":"404","message":"city not found"}`)
			return
		}
		fmt.Fprint(w, `{"weather":[{"description":"light rain"}],"main":{"temp":12.5,"feels_like":11,"humidity":80}}`)
	}))
	defer srv.Close()

	deps := testDeps(t, nil)
	deps.WeatherURL = srv.URL
	r := newRegistry(t, deps)

	res := call(t, r, "get_weather", map[string]any{"location": "London"})
	if res.IsError || res.Text() != "Weather API key not configured" {
		t.Fatalf("unexpected result: %+v", res)
	}

	t.Setenv("WEATHER_API_KEY", "weather-key-123")
	res = call(t, r, "get_weather", map[string]any{"location": "London"})
	want := "Weather in London:\n• Light Rain\n• Temperature: 12.5°C (feels like 11°C)\n• Humidity: 80%"
	if res.Text() != want {
		t.Fatalf("got %q, want %q", res.Text(), want)
	}
	if got["appid"] != "weather-key-123" || got["units"] != "metric" || got["q"] != "London" {
		t.Fatalf("unexpected query: %v", got)
	}

	res = call(t, r, "get_weather", map[string]any{"location": "Atlantis"})
	if res.Text() != "Weather data not found for Atlantis" {
		t.Fatalf("got %q", res.Text())
	}
}

func TestGetWeather_MalformedKey(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	t.Setenv("WEATHER_API_KEY", "short")
	deps := testDeps(t, nil)
	deps.WeatherURL = srv.URL
	r := newRegistry(t, deps)

	res := call(t, r, "get_weather", map[string]any{"location": "London"})
	if res.IsError || !strings.HasPrefix(res.Text(), "Weather API key validation failed: ") {
		t.Fatalf("unexpected result: %+v", res)
	}
	if hits != 0 {
		t.Fatalf("weather API called %d times with a malformed key", hits)
	}
}
