package demtile

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"os"
	"sort"

	"github.com/RoaringBitmap/roaring/roaring64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/protomaps/go-pmtiles/pmtiles"
)

type offsetLen struct {
	offset uint64
	length uint32
}

// A pmtilesOutputter writes tiles into a single PMTiles archive. Tile
// bodies are gzipped (ASCII grids compress an order of magnitude) and
// deduplicated by content hash.
type pmtilesOutputter struct {
	tileset        *roaring64.Bitmap
	hashFunc       hash.Hash
	offsetMap      map[string]offsetLen
	tileData       *os.File
	entries        []pmtiles.EntryV3
	compressBuffer *bytes.Buffer
	compressor     *gzip.Writer
	header         pmtiles.HeaderV3
	metadata       *MbtilesMetadata
	outFile        *os.File
}

func NewPmtilesOutputter(dsn string, bound orb.Bound, zoom maptile.Zoom, metadata *MbtilesMetadata) (TileOutputter, error) {
	tmpFile, err := os.CreateTemp("", "demgrid-pmtiles-tiledata")
	if err != nil {
		return nil, fmt.Errorf("error creating temp file: %w", err)
	}

	outFile, err := os.Create(dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating pmtiles output file: %w", err)
	}

	header := pmtiles.HeaderV3{
		TileType:        pmtiles.UnknownTileType,
		TileCompression: pmtiles.Gzip,
		MinZoom:         uint8(zoom),
		MaxZoom:         uint8(zoom),
		MinLonE7:        int32(bound.Min.X() * 10000000),
		MinLatE7:        int32(bound.Min.Y() * 10000000),
		MaxLonE7:        int32(bound.Max.X() * 10000000),
		MaxLatE7:        int32(bound.Max.Y() * 10000000),
		CenterZoom:      uint8(zoom),
		CenterLonE7:     int32(bound.Center().X() * 10000000),
		CenterLatE7:     int32(bound.Center().Y() * 10000000),
	}

	compressBuffer := bytes.NewBuffer(nil)
	return &pmtilesOutputter{
		outFile:        outFile,
		tileset:        roaring64.New(),
		hashFunc:       fnv.New128a(),
		tileData:       tmpFile,
		offsetMap:      make(map[string]offsetLen),
		entries:        make([]pmtiles.EntryV3, 0),
		compressBuffer: compressBuffer,
		compressor:     gzip.NewWriter(compressBuffer),
		header:         header,
		metadata:       metadata,
	}, nil
}

func (p *pmtilesOutputter) CreateTiles() error {
	return nil
}

func (p *pmtilesOutputter) Save(tile maptile.Tile, data []byte) error {
	// PMTiles tile IDs use TMS-style Y.
	flippedY := (uint32(1) << uint(tile.Z)) - 1 - tile.Y
	id := pmtiles.ZxyToID(uint8(tile.Z), tile.X, flippedY)
	p.tileset.Add(id)

	p.hashFunc.Reset()
	p.hashFunc.Write(data)
	sumString := string(p.hashFunc.Sum(nil))

	found, ok := p.offsetMap[sumString]
	if !ok {
		offset, err := p.tileData.Seek(0, io.SeekEnd)
		if err != nil {
			return err
		}

		var newData []byte
		if len(data) >= 2 && data[0] == 31 && data[1] == 139 {
			// already gzipped
			newData = data
		} else {
			p.compressBuffer.Reset()
			p.compressor.Reset(p.compressBuffer)
			p.compressor.Write(data)
			p.compressor.Close()
			newData = p.compressBuffer.Bytes()
		}

		bytesWritten, err := p.tileData.Write(newData)
		if err != nil {
			return err
		}

		found = offsetLen{
			offset: uint64(offset),
			length: uint32(bytesWritten),
		}
		p.offsetMap[sumString] = found
	}

	p.entries = append(p.entries, pmtiles.EntryV3{
		TileID:    id,
		Offset:    found.offset,
		Length:    found.length,
		RunLength: 1,
	})

	return nil
}

func (p *pmtilesOutputter) Close() error {
	defer os.Remove(p.tileData.Name())
	defer p.outFile.Close()

	// Directory entries must be ordered by tile ID.
	sort.Slice(p.entries, func(i, j int) bool {
		return p.entries[i].TileID < p.entries[j].TileID
	})

	p.header.AddressedTilesCount = p.tileset.GetCardinality()
	p.header.TileEntriesCount = uint64(len(p.entries))
	p.header.TileContentsCount = uint64(len(p.offsetMap))

	rootBytes, leavesBytes, _ := splitDirectories(p.entries, 16384-pmtiles.HeaderV3LenBytes, pmtiles.Gzip)

	jsonMetadata := make(map[string]interface{})
	if p.metadata != nil {
		for _, k := range p.metadata.Keys() {
			v, _ := p.metadata.Get(k)
			jsonMetadata[k] = v
		}
	}

	metadataBytes, err := pmtiles.SerializeMetadata(jsonMetadata, pmtiles.Gzip)
	if err != nil {
		return fmt.Errorf("error serializing pmtiles metadata: %w", err)
	}

	tileDataLen, err := p.tileData.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	p.header.InternalCompression = pmtiles.Gzip
	p.header.RootOffset = pmtiles.HeaderV3LenBytes
	p.header.RootLength = uint64(len(rootBytes))
	p.header.MetadataOffset = p.header.RootOffset + p.header.RootLength
	p.header.MetadataLength = uint64(len(metadataBytes))
	p.header.LeafDirectoryOffset = p.header.MetadataOffset + p.header.MetadataLength
	p.header.LeafDirectoryLength = uint64(len(leavesBytes))
	p.header.TileDataOffset = p.header.LeafDirectoryOffset + p.header.LeafDirectoryLength
	p.header.TileDataLength = uint64(tileDataLen)

	if _, err := p.outFile.Write(pmtiles.SerializeHeader(p.header)); err != nil {
		return fmt.Errorf("error writing pmtiles header: %w", err)
	}
	if _, err := p.outFile.Write(rootBytes); err != nil {
		return fmt.Errorf("error writing pmtiles root directory: %w", err)
	}
	if _, err := p.outFile.Write(metadataBytes); err != nil {
		return fmt.Errorf("error writing pmtiles metadata: %w", err)
	}
	if _, err := p.outFile.Write(leavesBytes); err != nil {
		return fmt.Errorf("error writing pmtiles leaf directory: %w", err)
	}

	if _, err := p.tileData.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to start of tile data: %w", err)
	}
	if _, err := io.Copy(p.outFile, p.tileData); err != nil {
		return fmt.Errorf("error copying tile data to outfile: %w", err)
	}

	return p.tileData.Close()
}

// splitDirectories packs entries into a root directory that fits the target
// length, spilling into leaf directories when it does not.
func splitDirectories(entries []pmtiles.EntryV3, targetRootLen int, compression pmtiles.Compression) ([]byte, []byte, int) {
	if len(entries) < 16384 {
		rootBytes := pmtiles.SerializeEntries(entries, compression)
		if len(rootBytes) <= targetRootLen {
			return rootBytes, nil, 0
		}
	}

	// Iterate on the leaf size until the root of leaf pointers fits.
	leafSize := len(entries) / 3500
	if leafSize < 4096 {
		leafSize = 4096
	}

	for {
		rootBytes, leavesBytes, numLeaves := buildRootLeaves(entries, leafSize, compression)
		if len(rootBytes) <= targetRootLen {
			return rootBytes, leavesBytes, numLeaves
		}
		leafSize += leafSize / 5
	}
}

func buildRootLeaves(entries []pmtiles.EntryV3, leafSize int, compression pmtiles.Compression) ([]byte, []byte, int) {
	rootEntries := make([]pmtiles.EntryV3, 0)
	leavesBytes := make([]byte, 0)
	numLeaves := 0

	for i := 0; i < len(entries); i += leafSize {
		numLeaves++
		end := i + leafSize
		if end > len(entries) {
			end = len(entries)
		}
		serialized := pmtiles.SerializeEntries(entries[i:end], compression)

		rootEntries = append(rootEntries, pmtiles.EntryV3{
			TileID:    entries[i].TileID,
			Offset:    uint64(len(leavesBytes)),
			Length:    uint32(len(serialized)),
			RunLength: 0,
		})
		leavesBytes = append(leavesBytes, serialized...)
	}

	rootBytes := pmtiles.SerializeEntries(rootEntries, compression)
	return rootBytes, leavesBytes, numLeaves
}
