package demtile

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

const (
	httpUserAgent = "go-demgrid/1.0"
	httpRetries   = 5
)

// NewXYZJobGenerator fetches DEM tiles from an XYZ tile server. The URL
// template uses {z}, {x} and {y} placeholders. A non-nil cache is consulted
// before every network request; a cache that is also a TileStore gets every
// fetched tile body written back.
func NewXYZJobGenerator(urlTemplate string, bound orb.Bound, zoom maptile.Zoom, httpTimeout time.Duration, cache TileCache) (JobGenerator, error) {
	httpClient := &http.Client{
		Timeout: httpTimeout,
		Transport: &http.Transport{
			MaxIdleConnsPerHost: 500,
		},
	}

	store, _ := cache.(TileStore)
	return &xyzJobGenerator{
		httpClient:  httpClient,
		urlTemplate: urlTemplate,
		bound:       bound,
		zoom:        zoom,
		cache:       cache,
		store:       store,
	}, nil
}

type xyzJobGenerator struct {
	httpClient  *http.Client
	urlTemplate string
	bound       orb.Bound
	zoom        maptile.Zoom
	cache       TileCache
	store       TileStore
}

// doHTTPWithRetry retries 5xx responses with exponential backoff. 2xx and
// 4xx responses are returned to the caller as-is.
func doHTTPWithRetry(client *http.Client, request *http.Request, nRetries int) (*http.Response, error) {
	sleep := 500 * time.Millisecond

	for i := 0; i < nRetries; i++ {
		resp, err := client.Do(request)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode < 500 || resp.StatusCode >= 600 {
			return resp, nil
		}

		resp.Body.Close()
		time.Sleep(sleep)
		sleep *= 2
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
	}

	return nil, fmt.Errorf("ran out of HTTP GET retries for %s", request.URL)
}

func (x *xyzJobGenerator) CreateWorker() (func(id int, jobs chan *TileRequest, results chan *TileResponse), error) {
	f := func(id int, jobs chan *TileRequest, results chan *TileResponse) {
		for request := range jobs {
			start := time.Now()

			if x.cache != nil {
				if data, ok := x.cache.Cached(request.Tile); ok {
					tileCacheHits.Inc()
					results <- &TileResponse{
						Tile:    request.Tile,
						Data:    data,
						Elapsed: time.Since(start).Seconds(),
					}
					continue
				}
				tileCacheMisses.Inc()
			}

			httpReq, err := http.NewRequest(http.MethodGet, request.URL, nil)
			if err != nil {
				tileFetchErrors.Inc()
				results <- &TileResponse{Tile: request.Tile}
				continue
			}
			httpReq.Header.Add("User-Agent", httpUserAgent)

			resp, err := doHTTPWithRetry(x.httpClient, httpReq, httpRetries)
			if err != nil {
				tileFetchErrors.Inc()
				results <- &TileResponse{Tile: request.Tile}
				continue
			}

			// GSI's DEM layers answer 404 for tiles that are entirely sea.
			// Those still occupy a cell of the height grid, so they flow
			// through as empty responses rather than being dropped.
			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				tileFetchMisses.Inc()
				results <- &TileResponse{
					Tile:    request.Tile,
					Elapsed: time.Since(start).Seconds(),
				}
				continue
			}

			bodyData, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				tileFetchErrors.Inc()
				results <- &TileResponse{Tile: request.Tile}
				continue
			}

			if x.store != nil {
				x.store.Put(request.Tile, bodyData)
			}

			tileFetches.Inc()
			results <- &TileResponse{
				Tile:    request.Tile,
				Data:    bodyData,
				Elapsed: time.Since(start).Seconds(),
			}

			// Sleep a tiny bit to avoid hammering the tile server.
			time.Sleep(time.Duration(rand.Intn(50)) * time.Millisecond)
		}
	}

	return f, nil
}

func (x *xyzJobGenerator) CreateJobs(jobs chan *TileRequest) error {
	return generateJobs(jobs, x.urlTemplate, x.bound, x.zoom)
}
