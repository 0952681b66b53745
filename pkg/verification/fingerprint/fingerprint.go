package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the read size used while hashing
const ChunkSize = 4096

// Fingerprint is the SHA-256 digest of a document's full byte stream
type Fingerprint [sha256.Size]byte

func (f Fingerprint) String() string {
	return hex.EncodeToString(f[:])
}

// FromReader hashes r in fixed-size chunks. A read error yields no digest.
func FromReader(r io.Reader) (Fingerprint, error) {
	var fp Fingerprint
	h := sha256.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fp, fmt.Errorf("read document stream: %w", err)
		}
	}
	copy(fp[:], h.Sum(nil))
	return fp, nil
}

// FromBytes hashes an in-memory document
func FromBytes(data []byte) Fingerprint {
	return Fingerprint(sha256.Sum256(data))
}

// FromFile streams the file at path through FromReader
func FromFile(path string) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return FromReader(f)
}
