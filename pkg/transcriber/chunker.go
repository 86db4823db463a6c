package transcriber

// Chunk is one contiguous sub-interval of the source, in seconds.
// Consecutive chunks overlap so that words cut at a boundary show up in
// both and can be deduplicated during stitching.
type Chunk struct {
	Index  int
	Start  float64
	Length float64
}

// planChunks lays out chunk start offsets across a file of the given
// total duration. The step is floored at one second so a pathological
// overlap close to the chunk size cannot stall the walk. The extractor
// clips the last chunk at end of file, so every chunk asks for the full
// chunk length.
func planChunks(total, chunkSeconds, overlapSeconds float64) []Chunk {
	step := chunkSeconds - overlapSeconds
	if step < 1.0 {
		step = 1.0
	}

	var plan []Chunk
	for offset := 0.0; offset < total; offset += step {
		plan = append(plan, Chunk{
			Index:  len(plan),
			Start:  offset,
			Length: chunkSeconds,
		})
	}

	return plan
}
