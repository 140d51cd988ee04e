package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

func newOsmScanner(ctx context.Context, r io.Reader, pbf bool, skipNodes bool) osmScanner {
	if pbf {
		scanner := osmpbf.New(ctx, r, 0)
		scanner.SkipNodes = skipNodes
		scanner.SkipWays = !skipNodes
		scanner.SkipRelations = true
		return scanner
	}
	return osmxml.New(ctx, r)
}

// acceptOsmWay matches the ways requested from overpass: anything carrying a highway tag.
func acceptOsmWay(way *osm.Way) bool {
	return way.Tags.Find("highway") != "" && len(way.Nodes) >= 2
}

// LoadRecordsFromFile reads an .osm.pbf or .osm (xml) extract and returns the same records the overpass
// client produces: highway ways as segments, and the nodes those ways reference as points.
func LoadRecordsFromFile(ctx context.Context, mapFile string, logger *zap.Logger) ([]Record, error) {
	f, err := os.Open(mapFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadRecords(ctx, f, isPBF(mapFile), logger)
}

func isPBF(mapFile string) bool {
	return strings.EqualFold(filepath.Ext(mapFile), ".pbf")
}

// LoadRecords scans r twice, ways first, so only nodes referenced by accepted ways are kept.
func LoadRecords(ctx context.Context, r io.ReadSeeker, pbf bool, logger *zap.Logger) ([]Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	segments := make([]Record, 0)
	usedNodes := make(map[osm.NodeID]struct{})

	// must not be parallel
	scanner := newOsmScanner(ctx, r, pbf, true)
	countWays := 0
	for scanner.Scan() {
		way, ok := scanner.Object().(*osm.Way)
		if !ok || !acceptOsmWay(way) {
			continue
		}
		if (countWays+1)%50000 == 0 {
			logger.Sugar().Infof("scanning openstreetmap ways: %d...", countWays+1)
		}
		countWays++

		points := make([]int64, len(way.Nodes))
		for i, n := range way.Nodes {
			points[i] = int64(n.ID)
			usedNodes[n.ID] = struct{}{}
		}
		segments = append(segments, NewSegmentRecord(int64(way.ID), points))
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("scan osm ways: %w", err)
	}
	scanner.Close()

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(usedNodes)+len(segments))
	scanner = newOsmScanner(ctx, r, pbf, false)
	defer scanner.Close()
	for scanner.Scan() {
		node, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, used := usedNodes[node.ID]; !used {
			continue
		}
		records = append(records, NewPointRecord(int64(node.ID), node.Lat, node.Lon))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm nodes: %w", err)
	}

	logger.Info("openstreetmap extract loaded",
		zap.Int("ways", len(segments)), zap.Int("nodes", len(records)))

	return append(records, segments...), nil
}
