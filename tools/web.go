package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"pdf-summarizer-mcp/errdefs"
	"pdf-summarizer-mcp/validate"
)

const (
	DefaultSearchURL  = "https://api.duckduckgo.com/"
	DefaultWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

	userAgent       = "Mozilla/5.0 (compatible; MCP-Server/1.0)"
	scrapeLimit     = 5000
	scrapeBodyLimit = 5 << 20
	defaultTimeout  = 10 * time.Second
)

func (r *Registry) webTools() []*Tool {
	return []*Tool{
		{
			Name:        "search_web",
			Title:       "Web Search",
			Description: "Search the web using the DuckDuckGo instant answer API",
			Schema: object([]string{"query"}, map[string]*jsonschema.Schema{
				"query": stringProp("Query", "Search query"),
				"num_results": {
					Type:        "integer",
					Description: "Number of results to return (default: 5)",
					Minimum:     ptr(1.0),
					Maximum:     ptr(20.0),
				},
			}),
			plain: true,
			run:   r.searchWeb,
		},
		{
			Name:        "scrape_webpage",
			Title:       "Scrape Webpage",
			Description: "Extract the readable text content of a webpage",
			Schema: object([]string{"url"}, map[string]*jsonschema.Schema{
				"url": {Type: "string", Title: "URL", Description: "URL of the webpage to scrape", Format: "uri"},
			}),
			plain: true,
			run:   r.scrapeWebpage,
		},
		{
			Name:        "get_weather",
			Title:       "Current Weather",
			Description: "Get current weather information for a location",
			Schema: object([]string{"location"}, map[string]*jsonschema.Schema{
				"location": stringProp("Location", "City name, optionally with country code (e.g. London,uk)"),
			}),
			plain: true,
			run:   r.getWeather,
		},
	}
}

func (r *Registry) timeout() time.Duration {
	if r.deps.Download.Timeout > 0 {
		return r.deps.Download.Timeout
	}
	return defaultTimeout
}

func (r *Registry) get(ctx context.Context, rawURL string) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := r.deps.HTTPClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

type searchResponse struct {
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

func (r *Registry) searchWeb(ctx context.Context, a args) (string, error) {
	q := url.Values{}
	q.Set("q", a.str("query", ""))
	q.Set("format", "json")
	q.Set("no_html", "1")

	resp, err := r.get(ctx, r.deps.SearchURL+"?"+q.Encode())
	if err != nil {
		return "", errdefs.Upstream("Search failed", err)
	}
	defer resp.Body.Close()

	var data searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", errdefs.Upstream("Search failed", err)
	}

	n := a.integer("num_results", 5)
	var results []string
	for i, item := range data.RelatedTopics {
		if i >= n {
			break
		}
		if item.Text == "" || item.FirstURL == "" {
			continue
		}
		results = append(results, fmt.Sprintf("• %s\n  URL: %s", item.Text, item.FirstURL))
	}
	if len(results) == 0 {
		return "No results found", nil
	}
	return strings.Join(results, "\n\n"), nil
}

func (r *Registry) scrapeWebpage(ctx context.Context, a args) (string, error) {
	target := a.str("url", "")
	if err := validate.ValidateURL(target); err != nil {
		return "", errdefs.InvalidInput("%v", err)
	}
	resp, err := r.get(ctx, strings.TrimSpace(target))
	if err != nil {
		return "", errdefs.Upstream("Failed to scrape webpage", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errdefs.Upstream(fmt.Sprintf("Failed to scrape webpage: HTTP %d", resp.StatusCode), nil)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, scrapeBodyLimit))
	if err != nil {
		return "", errdefs.Upstream("Failed to scrape webpage", err)
	}
	text := strings.Join(strings.Fields(visibleText(doc)), " ")
	if n := []rune(text); len(n) > scrapeLimit {
		return string(n[:scrapeLimit]) + "...", nil
	}
	return text, nil
}

// visibleText concatenates text nodes, skipping script and style subtrees.
func visibleText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
}

func (r *Registry) getWeather(ctx context.Context, a args) (string, error) {
	key := r.deps.WeatherAPIKey
	if key == "" {
		key = os.Getenv("WEATHER_API_KEY")
	}
	if key == "" {
		return "", errdefs.Upstream("Weather API key not configured", nil)
	}
	if err := validate.ValidateAPIKey(key, "weather"); err != nil {
		return "", errdefs.Upstream("Weather API key validation failed", err)
	}
	location := strings.TrimSpace(a.str("location", ""))

	q := url.Values{}
	q.Set("q", location)
	q.Set("appid", key)
	q.Set("units", "metric")
	resp, err := r.get(ctx, r.deps.WeatherURL+"?"+q.Encode())
	if err != nil {
		return "", errdefs.Upstream("Weather lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Weather data not found for %s", location), nil
	}
	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", errdefs.Upstream("Weather lookup failed", err)
	}
	desc := ""
	if len(data.Weather) > 0 {
		desc = cases.Title(language.English).String(data.Weather[0].Description)
	}
	return fmt.Sprintf("Weather in %s:\n• %s\n• Temperature: %s°C (feels like %s°C)\n• Humidity: %s%%",
		location, desc, num(data.Main.Temp), num(data.Main.FeelsLike), num(data.Main.Humidity)), nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
