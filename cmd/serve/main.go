package main

import (
	"flag"
	"log"
	gohttp "net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kuma003/go-demgrid/demtile"
	demhttp "github.com/kuma003/go-demgrid/http"
)

func loggingMiddleware(logger *log.Logger) func(gohttp.Handler) gohttp.Handler {
	return func(next gohttp.Handler) gohttp.Handler {
		return gohttp.HandlerFunc(func(w gohttp.ResponseWriter, r *gohttp.Request) {
			defer func() {
				logger.Println(r.Method, r.URL.Path, r.RemoteAddr, r.UserAgent())
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func main() {
	mbtilesFile := flag.String("input", "", "The name of the mbtiles tile cache to serve from.")
	addr := flag.String("listen", ":8080", "The address and port to listen on")
	flag.Parse()

	logger := log.New(os.Stdout, "http: ", log.LstdFlags)

	if *mbtilesFile == "" {
		logger.Fatal("Need to provide -input parameter")
	}

	reader, err := demtile.NewMbtilesReader(*mbtilesFile)
	if err != nil {
		logger.Fatalf("Couldn't open mbtiles tile cache, %v", err)
	}
	defer reader.Close()

	if metadata, err := reader.Metadata(); err == nil {
		if bounds, err := metadata.Bounds(); err == nil {
			logger.Printf("Serving %s covering %v", metadata.Name(), bounds)
		}
	}

	router := gohttp.NewServeMux()
	router.Handle("/dem/", demhttp.DEMHandler(reader))
	router.Handle("/metrics", promhttp.Handler())

	server := &gohttp.Server{
		Addr:         *addr,
		Handler:      loggingMiddleware(logger)(router),
		ErrorLog:     logger,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	logger.Printf("Listening on %s", *addr)
	if err := server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		logger.Fatalf("Could not listen on %s: %v", *addr, err)
	}
}
