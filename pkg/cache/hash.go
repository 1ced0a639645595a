package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// artifactKeyVersion is bumped whenever the DOT writer changes in a way that
// alters rendered output, invalidating older entries.
const artifactKeyVersion = "v1"

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ArtifactKey returns the cache key for the artifact rendered from dot in
// the given format.
func ArtifactKey(dot []byte, format string) string {
	return fmt.Sprintf("artifact:%s:%s:%s", artifactKeyVersion, format, Hash(dot))
}
