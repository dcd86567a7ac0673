// Package upload submits validated records to the service.
//
// Activities go up in fixed-size chunks through a Submitter, either as a
// JSON array or as multipart with one image per activity. Reactions go up one
// at a time. Both stop at the first rejected request; nothing is retried.
package upload

import (
	"iter"

	"github.com/pithecene-io/seedbank/types"
)

// DefaultChunkSize is the number of activities per batch request.
const DefaultChunkSize = 20

// Chunk is a contiguous slice of the validated activity sequence.
// Start is inclusive and End exclusive.
type Chunk struct {
	Index      int
	Start      int
	End        int
	Activities []types.ActivityDTO
}

// Size returns the number of activities in the chunk.
func (c Chunk) Size() int { return len(c.Activities) }

// Chunks partitions dtos into consecutive chunks of size elements; the last
// chunk may be shorter. It yields nothing when size is not positive.
func Chunks(dtos []types.ActivityDTO, size int) iter.Seq[Chunk] {
	return func(yield func(Chunk) bool) {
		if size <= 0 {
			return
		}
		for index, start := 0, 0; start < len(dtos); index, start = index+1, start+size {
			end := min(start+size, len(dtos))
			if !yield(Chunk{Index: index, Start: start, End: end, Activities: dtos[start:end:end]}) {
				return
			}
		}
	}
}
