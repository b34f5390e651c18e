package compress

// NoOpCompressor stores payloads uncompressed.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a compressor that returns its input unchanged.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns data as is. The returned slice shares memory with data.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns data as is. The returned slice shares memory with data.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
