package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lukman83/giftlist-preview/internal/httputil"
	"github.com/lukman83/giftlist-preview/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const productPage = `<!DOCTYPE html>
<html>
<head>
  <title>Nice Mug | Shop</title>
  <meta property="og:title" content="Nice Mug">
  <meta property="og:image" content="/img/a.jpg">
  <script type="application/ld+json">
    {"@context":"https://schema.org","@type":"Product","name":"Nice Mug",
     "offers":{"@type":"Offer","price":"12.50","priceCurrency":"usd"}}
  </script>
</head>
<body><h1>Nice Mug</h1></body>
</html>`

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestService(client *http.Client, opts Options) *Service {
	return NewService(NewFetcher(client, FetcherConfig{}), zap.NewNop(), opts)
}

func assertFallback(t *testing.T, p *models.Preview, wantURL, wantTitle string) {
	t.Helper()
	assert.Equal(t, wantURL, p.URL)
	assert.Equal(t, wantTitle, p.Title)
	assert.Nil(t, p.Image)
	assert.Nil(t, p.Price)
	assert.Nil(t, p.Currency)
	assert.Equal(t, models.Source{
		Title: models.TitleFallback,
		Image: models.ImageNone,
		Price: models.PriceNone,
	}, p.Source)
}

func TestService_Preview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{})
	p := svc.Preview(context.Background(), srv.URL+"/item?id=7&utm_source=ig&fbclid=abc")

	assert.Equal(t, srv.URL+"/item?id=7", p.URL)
	assert.Equal(t, "Nice Mug", p.Title)
	assert.Equal(t, models.TitleOG, p.Source.Title)
	require.NotNil(t, p.Image)
	assert.Equal(t, srv.URL+"/img/a.jpg", *p.Image)
	require.NotNil(t, p.Price)
	assert.InDelta(t, 12.50, *p.Price, 1e-9)
	require.NotNil(t, p.Currency)
	assert.Equal(t, "USD", *p.Currency)
	assert.Equal(t, models.PriceJSONLD, p.Source.Price)
}

func TestService_ResultURLIsInputNotRedirectTarget(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/s/abc", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/shop/item", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/shop/item", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<meta property="og:image" content="pic.jpg">`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{})
	p := svc.Preview(context.Background(), srv.URL+"/s/abc")

	assert.Equal(t, srv.URL+"/s/abc", p.URL)
	require.NotNil(t, p.Image)
	assert.Equal(t, srv.URL+"/shop/pic.jpg", *p.Image, "relative image resolves against the fetched page")
}

func TestService_PartialPageIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>plain</body></html>"))
	}))
	defer srv.Close()

	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{})
	p := svc.Preview(context.Background(), srv.URL)

	assert.Equal(t, models.TitleFallback, p.Source.Title)
	assert.Equal(t, "127.0.0.1", p.Title)
	assert.Nil(t, p.Image)
	assert.Nil(t, p.Price)
}

func TestService_FallbackOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{})
	p := svc.Preview(context.Background(), srv.URL+"/item")

	assertFallback(t, p, srv.URL+"/item", "127.0.0.1")
}

func TestService_FallbackOnNetworkError(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}

	svc := newTestService(client, Options{})
	p := svc.Preview(context.Background(), "https://www.shop.com/item?utm_medium=x")

	assertFallback(t, p, "https://www.shop.com/item", "shop.com")
}

func TestService_FallbackOnInvalidInput(t *testing.T) {
	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{})
	p := svc.Preview(context.Background(), "  not-a-url  ")

	assertFallback(t, p, "not-a-url", "not-a-url")
}

func TestService_FallbackOnPanic(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		panic("boom")
	})}

	svc := newTestService(client, Options{})
	p := svc.Preview(context.Background(), "https://shop.com/item")

	assertFallback(t, p, "https://shop.com/item", "shop.com")
}

func TestService_FetchTimeoutDegradesToFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{
		FetchTimeout: 50 * time.Millisecond,
		HardDeadline: 2 * time.Second,
	})

	start := time.Now()
	p := svc.Preview(context.Background(), srv.URL)
	elapsed := time.Since(start)

	assertFallback(t, p, srv.URL, "127.0.0.1")
	assert.Less(t, elapsed, 2*time.Second)
}

func TestService_HardDeadlineCutsOffStuckFetch(t *testing.T) {
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	// Ignores request cancellation entirely.
	client := &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
		<-release
		return nil, errors.New("released")
	})}

	svc := newTestService(client, Options{
		FetchTimeout: time.Minute,
		HardDeadline: 100 * time.Millisecond,
	})

	start := time.Now()
	p := svc.Preview(context.Background(), "https://shop.com/slow")
	elapsed := time.Since(start)

	assertFallback(t, p, "https://shop.com/slow", "shop.com")
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestService_CallerCancellation(t *testing.T) {
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})}
	svc := newTestService(client, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := svc.Preview(ctx, "https://shop.com/item")
	assertFallback(t, p, "https://shop.com/item", "shop.com")
}

func TestService_PreviewManyKeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(50 * time.Millisecond)
		}
		w.Write([]byte(`<meta property="og:title" content="` + r.URL.Path + `">`))
	}))
	defer srv.Close()

	svc := newTestService(httputil.NewHTTPClient(nil, 0), Options{MaxConcurrent: 2})
	urls := []string{srv.URL + "/slow", srv.URL + "/a", "bogus", srv.URL + "/b"}
	got := svc.PreviewMany(context.Background(), urls)

	require.Len(t, got, 4)
	assert.Equal(t, "/slow", got[0].Title)
	assert.Equal(t, "/a", got[1].Title)
	assert.Equal(t, models.TitleFallback, got[2].Source.Title)
	assert.Equal(t, "/b", got[3].Title)
}

func TestService_ReportsProgress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productPage))
	}))
	defer srv.Close()

	var (
		mu   sync.Mutex
		msgs []string
	)
	ctx := WithProgress(context.Background(), func(msg string) {
		mu.Lock()
		msgs = append(msgs, msg)
		mu.Unlock()
	})

	newTestService(httputil.NewHTTPClient(nil, 0), Options{}).Preview(ctx, srv.URL)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], "Fetching")
	assert.Contains(t, msgs[1], "Extracting")
}
