package transfer

import "github.com/snag-dl/snag/internal/utils"

// segment is one contiguous byte range of the source file, fetched by one
// worker. Offsets are inclusive on both ends.
type segment struct {
	index int
	start int64
	end   int64
}

func (s segment) size() int64 {
	return s.end - s.start + 1
}

// buildPlan splits [0, total) into at most connections contiguous segments.
// Segments 0..N-2 share an equal size; the last one absorbs the division
// remainder. When the equal share would drop below the 1 MiB floor, the
// segment count shrinks to keep every segment at or above it, down to a
// single serial segment.
func buildPlan(total int64, connections int) []segment {
	if connections < 1 {
		connections = 1
	}
	segmentSize := total / int64(connections)
	if segmentSize < utils.MinSegmentSize {
		connections = int(total / utils.MinSegmentSize)
		if connections < 1 {
			connections = 1
		}
		segmentSize = total / int64(connections)
	}

	segments := make([]segment, 0, connections)
	for i := 0; i < connections; i++ {
		start := int64(i) * segmentSize
		end := start + segmentSize - 1
		if i == connections-1 {
			end = total - 1
		}
		segments = append(segments, segment{index: i, start: start, end: end})
	}
	return segments
}
