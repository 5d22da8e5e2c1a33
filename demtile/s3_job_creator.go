package demtile

import (
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// NewS3JobGenerator fetches DEM tiles directly from an S3 bucket, for
// sources like the public elevation-tiles bucket that skip the HTTP tile
// server. The path template uses the same {z}/{x}/{y} placeholders as URL
// templates. A non-nil cache is consulted before every download; a cache
// that is also a TileStore gets every fetched object written back.
func NewS3JobGenerator(bucket string, pathTemplate string, bound orb.Bound, zoom maptile.Zoom, requesterPays bool, cache TileCache) (JobGenerator, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, err
	}

	store, _ := cache.(TileStore)
	return &s3JobGenerator{
		downloader:    s3manager.NewDownloader(sess),
		bucket:        bucket,
		pathTemplate:  pathTemplate,
		bound:         bound,
		zoom:          zoom,
		requesterPays: requesterPays,
		cache:         cache,
		store:         store,
	}, nil
}

type s3JobGenerator struct {
	downloader    *s3manager.Downloader
	bucket        string
	pathTemplate  string
	bound         orb.Bound
	zoom          maptile.Zoom
	requesterPays bool
	cache         TileCache
	store         TileStore
}

func (g *s3JobGenerator) CreateWorker() (func(id int, jobs chan *TileRequest, results chan *TileResponse), error) {
	f := func(id int, jobs chan *TileRequest, results chan *TileResponse) {
		for request := range jobs {
			start := time.Now()

			if g.cache != nil {
				if data, ok := g.cache.Cached(request.Tile); ok {
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

			key := strings.TrimPrefix(request.URL, "s3://"+g.bucket+"/")
			input := &s3.GetObjectInput{
				Bucket: aws.String(g.bucket),
				Key:    aws.String(key),
			}
			if g.requesterPays {
				input.RequestPayer = aws.String(s3.RequestPayerRequester)
			}

			buf := aws.NewWriteAtBuffer(nil)
			_, err := g.downloader.Download(buf, input)
			if err != nil {
				if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
					tileFetchMisses.Inc()
					results <- &TileResponse{
						Tile:    request.Tile,
						Elapsed: time.Since(start).Seconds(),
					}
					continue
				}
				tileFetchErrors.Inc()
				results <- &TileResponse{Tile: request.Tile}
				continue
			}

			if g.store != nil {
				g.store.Put(request.Tile, buf.Bytes())
			}

			tileFetches.Inc()
			results <- &TileResponse{
				Tile:    request.Tile,
				Data:    buf.Bytes(),
				Elapsed: time.Since(start).Seconds(),
			}
		}
	}

	return f, nil
}

func (g *s3JobGenerator) CreateJobs(jobs chan *TileRequest) error {
	return generateJobs(jobs, "s3://"+g.bucket+"/"+g.pathTemplate, g.bound, g.zoom)
}
