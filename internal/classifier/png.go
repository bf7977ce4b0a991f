package classifier

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

const maxChunkLength = 1<<31 - 1

var errNotPNG = errors.New("missing png signature")

// firstTextChunk walks the chunk stream and returns the data of the first tEXt
// chunk. found is false for a well-formed stream that has none. Any structural
// problem (bad signature, IHDR not first, truncated chunk, CRC mismatch) is an error.
func firstTextChunk(data []byte) (text []byte, found bool, err error) {
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, false, errNotPNG
	}

	r := bytes.NewReader(data[len(pngSignature):])
	header := make([]byte, 8)

	for index := 0; ; index++ {
		if _, err := io.ReadFull(r, header); err != nil {
			return nil, false, fmt.Errorf("chunk %d header: %w", index, err)
		}

		length := binary.BigEndian.Uint32(header[:4])
		chunkType := string(header[4:8])
		if length > maxChunkLength {
			return nil, false, fmt.Errorf("chunk %s: length %d out of range", chunkType, length)
		}
		if index == 0 && chunkType != "IHDR" {
			return nil, false, fmt.Errorf("first chunk is %s, expected IHDR", chunkType)
		}
		if int64(length) > int64(r.Len()) {
			return nil, false, fmt.Errorf("chunk %s: %w", chunkType, io.ErrUnexpectedEOF)
		}

		body := make([]byte, length)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, false, fmt.Errorf("chunk %s body: %w", chunkType, err)
		}

		var crc uint32
		if err := binary.Read(r, binary.BigEndian, &crc); err != nil {
			return nil, false, fmt.Errorf("chunk %s crc: %w", chunkType, err)
		}

		h := crc32.NewIEEE()
		h.Write(header[4:8])
		h.Write(body)
		if h.Sum32() != crc {
			return nil, false, fmt.Errorf("chunk %s: crc mismatch", chunkType)
		}

		switch chunkType {
		case "tEXt":
			return body, true, nil
		case "IEND":
			return nil, false, nil
		}
	}
}
