package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/schollz/progressbar/v3"

	"github.com/kuma003/go-demgrid/demtile"
	"github.com/kuma003/go-demgrid/settings"
)

func processResults(waitGroup *sync.WaitGroup, results chan *demtile.TileResponse, outputter demtile.TileOutputter, assembler *demtile.Assembler, bar *progressbar.ProgressBar) {
	defer waitGroup.Done()

	for result := range results {
		if outputter != nil && result.Data != nil {
			if err := outputter.Save(result.Tile, result.Data); err != nil {
				log.Printf("Couldn't save tile %+v", err)
			}
		}

		if err := assembler.Add(result); err != nil {
			// A tile the parser rejects still occupies its grid cell.
			log.Printf("Couldn't parse tile: %+v", err)
			assembler.Add(&demtile.TileResponse{Tile: result.Tile})
		}

		bar.Add(1)
	}

	if outputter != nil {
		if err := outputter.Close(); err != nil {
			log.Printf("Error closing tile output: %+v", err)
		}
	}
}

func parseBounds(boundsStr string) orb.Bound {
	parts := strings.Split(boundsStr, ",")
	if len(parts) != 4 {
		log.Fatalf("Bounding box string must be a comma-separated list of 4 numbers")
	}

	vals := make([]float64, 4)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			log.Fatalf("Bounding box string could not be parsed as numbers")
		}
		vals[i] = v
	}

	// south,west,north,east
	return orb.Bound{
		Min: orb.Point{vals[1], vals[0]},
		Max: orb.Point{vals[3], vals[2]},
	}
}

func main() {
	settingsPath := flag.String("settings", "", "TOML settings file with named map specs.")
	mapName := flag.String("map", "", "Name of the map spec to build from the settings file.")
	boundsStr := flag.String("bounds", "", "Comma-separated bounding box in south,west,north,east format (alternative to -settings).")
	zoomFlag := flag.Int("zoom", 12, "Zoom level to download (with -bounds).")
	urlTemplateStr := flag.String("url-template", "", "URL template with {z}, {x} and {y} placeholders (with -bounds).")
	sourceStr := flag.String("source", "xyz", "Which tile fetcher to use. Options are xyz, s3.")
	bucketStr := flag.String("bucket", "", "(For s3 source) The name of the S3 bucket to request tiles from.")
	pathTemplateStr := flag.String("path-template", "{z}/{x}/{y}.txt", "(For s3 source) The template for object keys.")
	requesterPays := flag.Bool("requester-pays", false, "(For s3 source) Request objects with requester-pays billing.")
	numTileFetchWorkers := flag.Int("workers", 8, "Number of tile fetch workers to use.")
	requestTimeout := flag.Int("timeout", 60, "HTTP client timeout for tile requests.")
	outputMode := flag.String("output-mode", "none", "Tile cache output. Valid modes are: none, disk, mbtiles, pmtiles.")
	outputDSN := flag.String("dsn", "", "Path to write the tile cache to.")
	cachePath := flag.String("cache", "", "Existing mbtiles tile cache to consult before downloading.")
	memCacheSize := flag.Int("mem-cache", 0, "Size of the in-memory tile cache. 0 disables it.")
	gridOutput := flag.String("grid-output", "", "Write the assembled height grid as an ESRI ASCII raster to this path.")
	noDataTokensStr := flag.String("nodata-tokens", "e", "Comma-separated cell values treated as no-data.")
	cpuProfile := flag.String("cpuprofile", "", "Enables CPU profiling. Saves the dump to the given path.")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	var bound orb.Bound
	var zoom maptile.Zoom
	var urlTemplate string
	name := "demgrid"

	switch {
	case *settingsPath != "":
		if *mapName == "" {
			log.Fatalf("-map is required with -settings")
		}
		loaded, err := settings.Load(*settingsPath)
		if err != nil {
			log.Fatalf("Couldn't load settings: %+v", err)
		}
		spec, ok := loaded.Spec(*mapName)
		if !ok {
			log.Fatalf("No map named %q in %s; available: %s", *mapName, *settingsPath, strings.Join(loaded.Names(), ", "))
		}
		bound = spec.Bound()
		zoom = maptile.Zoom(spec.Zoom)
		urlTemplate = spec.TileURL
		name = spec.Name
		log.Printf("Data attribute: %s", spec.DataAttribute)
	case *boundsStr != "":
		bound = parseBounds(*boundsStr)
		zoom = maptile.Zoom(*zoomFlag)
		urlTemplate = *urlTemplateStr
	default:
		log.Fatalf("Either -settings/-map or -bounds is required")
	}

	var cache demtile.TileCache
	if *cachePath != "" {
		reader, err := demtile.NewMbtilesReader(*cachePath)
		if err != nil {
			log.Fatalf("Couldn't open tile cache %s: %+v", *cachePath, err)
		}
		defer reader.Close()
		cache = reader
	} else if *memCacheSize > 0 {
		memCache, err := demtile.NewMemoryCache(*memCacheSize)
		if err != nil {
			log.Fatalf("Couldn't create memory cache: %+v", err)
		}
		cache = memCache
	}

	var jobCreator demtile.JobGenerator
	var err error
	switch *sourceStr {
	case "xyz":
		if urlTemplate == "" {
			log.Fatalf("URL template is required")
		}
		jobCreator, err = demtile.NewXYZJobGenerator(urlTemplate, bound, zoom, time.Duration(*requestTimeout)*time.Second, cache)
	case "s3":
		if *bucketStr == "" {
			log.Fatalf("Bucket name is required")
		}
		jobCreator, err = demtile.NewS3JobGenerator(*bucketStr, *pathTemplateStr, bound, zoom, *requesterPays, cache)
	default:
		log.Fatalf("Unknown tile source %s", *sourceStr)
	}
	if err != nil {
		log.Fatalf("Failed to create %s job creator: %+v", *sourceStr, err)
	}

	var outputter demtile.TileOutputter
	switch *outputMode {
	case "none":
	case "disk":
		outputter, err = demtile.NewDiskOutputter(*outputDSN, "txt")
	case "mbtiles":
		outputter, err = demtile.NewMbtilesOutputter(*outputDSN, 0, demtile.NewDEMMetadata(name, bound, zoom))
	case "pmtiles":
		outputter, err = demtile.NewPmtilesOutputter(*outputDSN, bound, zoom, demtile.NewDEMMetadata(name, bound, zoom))
	default:
		log.Fatalf("Unknown output mode: %s", *outputMode)
	}
	if err != nil {
		log.Fatalf("Couldn't create %s output: %+v", *outputMode, err)
	}
	if outputter != nil {
		if err := outputter.CreateTiles(); err != nil {
			log.Fatalf("Failed to create %s output: %+v", *outputMode, err)
		}
	}

	var tokens []string
	for _, token := range strings.Split(*noDataTokensStr, ",") {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	assembler := demtile.NewAssembler(bound, zoom, demtile.NewParser(tokens...))

	rows, cols := demtile.GridSize(bound, zoom)
	total := rows * cols
	log.Printf("Downloading %d tiles (%d rows x %d columns) at z%d", total, rows, cols, zoom)
	bar := progressbar.Default(int64(total), "downloading")

	jobs := make(chan *demtile.TileRequest, 2000)
	results := make(chan *demtile.TileResponse, 2000)

	// Start up the workers that fetch tiles
	workerWG := &sync.WaitGroup{}
	for w := 0; w < *numTileFetchWorkers; w++ {
		worker, err := jobCreator.CreateWorker()
		if err != nil {
			log.Fatalf("Couldn't create %s worker: %+v", *sourceStr, err)
		}

		workerWG.Add(1)
		go func(id int) {
			defer workerWG.Done()
			worker(id, jobs, results)
		}(w)
	}

	// Collect fetched tiles into the height grid
	resultWG := &sync.WaitGroup{}
	resultWG.Add(1)
	go processResults(resultWG, results, outputter, assembler, bar)

	if err := jobCreator.CreateJobs(jobs); err != nil {
		log.Fatalf("Failed to create jobs: %+v", err)
	}

	close(jobs)

	// When the workers are done, close the results channel
	workerWG.Wait()
	close(results)

	resultWG.Wait()

	grid := assembler.Grid()
	log.Printf("Assembled %dx%d height grid", grid.Rows(), grid.Cols())
	log.Printf("Sample footprint at the northwest corner: %.2fm x %.2fm", grid.PxWidth, grid.PxHeight)
	if min, max, ok := grid.MinMax(); ok {
		log.Printf("Elevation range: %.1fm to %.1fm", min, max)
	} else {
		log.Printf("No elevation samples in the requested area")
	}

	if *gridOutput != "" {
		f, err := os.Create(*gridOutput)
		if err != nil {
			log.Fatalf("Couldn't create grid output %s: %+v", *gridOutput, err)
		}
		if err := grid.WriteEsriASCII(f, -9999); err != nil {
			log.Fatalf("Couldn't write grid output: %+v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Couldn't close grid output: %+v", err)
		}
		log.Printf("Wrote height grid to %s", *gridOutput)
	}
}
