package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/paulmach/orb/maptile"

	"github.com/kuma003/go-demgrid/demtile"
)

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func main() {
	outputFilename := flag.String("output", "", "The output mbtiles tile cache to write to")
	flag.Parse()
	inputFilenames := flag.Args()

	if *outputFilename == "" {
		log.Fatalf("Must specify -output path")
	}

	if len(inputFilenames) == 0 {
		log.Fatalf("Must specify at least one input path")
	}

	log.Printf("Reading %s and writing them to %s", strings.Join(inputFilenames, ", "), *outputFilename)

	// If the output file exists already we shouldn't overwrite it
	if pathExists(*outputFilename) {
		log.Fatalf("Output path %s already exists and cannot be overwritten", *outputFilename)
	}

	// Carry the first input's metadata over to the merged cache.
	firstReader, err := demtile.NewMbtilesReader(inputFilenames[0])
	if err != nil {
		log.Fatalf("Couldn't read input mbtiles %s: %+v", inputFilenames[0], err)
	}
	metadata, err := firstReader.Metadata()
	if err != nil {
		log.Printf("Couldn't read metadata from %s: %+v", inputFilenames[0], err)
		metadata = nil
	}
	firstReader.Close()

	outputMbtiles, err := demtile.NewMbtilesOutputter(*outputFilename, 0, metadata)
	if err != nil {
		log.Fatalf("Couldn't create output mbtiles: %+v", err)
	}

	if err := outputMbtiles.CreateTiles(); err != nil {
		log.Fatalf("Couldn't create output mbtiles: %+v", err)
	}

	for _, inputFilename := range inputFilenames {
		mbtilesReader, err := demtile.NewMbtilesReader(inputFilename)
		if err != nil {
			log.Fatalf("Couldn't read input mbtiles %s: %+v", inputFilename, err)
		}

		count := 0
		err = mbtilesReader.VisitAllTiles(func(t maptile.Tile, data []byte) {
			if err := outputMbtiles.Save(t, data); err != nil {
				log.Printf("Couldn't save tile %+v: %+v", t, err)
				return
			}
			count++
		})
		if err != nil {
			log.Fatalf("Couldn't read tiles from %s: %+v", inputFilename, err)
		}

		mbtilesReader.Close()
		log.Printf("Merged %d tiles from %s", count, inputFilename)
	}

	if err := outputMbtiles.Close(); err != nil {
		log.Fatalf("Couldn't close output mbtiles: %+v", err)
	}
}
