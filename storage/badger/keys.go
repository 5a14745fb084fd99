package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/refind/core"
)

// Key prefixes for different data types
const (
	itemRecordPrefix         = "itmrec"
	itemRecordDatePrefix     = "itmrecd"
	itemRecordCategoryPrefix = "itmrecc"
	itemRecordIDSeq          = "itmrecseq"
)

// makeItemKey generates a key for a found item by ID.
func makeItemKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", itemRecordPrefix, id))
}

// makeItemDateKey generates a composite key for the found-date index.
// Format: prefix:timestamp:id
func makeItemDateKey(timestamp time.Time, id core.ID) []byte {
	prefix := itemRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialItemDateKey generates a partial key for date range queries.
// Format: prefix:timestamp
func makePartialItemDateKey(timestamp time.Time) []byte {
	prefix := itemRecordDatePrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8 // 8 bytes for timestamp
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	return buf
}

// makeItemCategoryKey generates a composite key for the category index.
// Format: prefix:category:id
func makeItemCategoryKey(category string, id core.ID) []byte {
	prefix := itemRecordCategoryPrefix + ":" + category + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialItemCategoryKey generates a partial key for category queries.
// Format: prefix:category:
func makePartialItemCategoryKey(category string) []byte {
	return []byte(itemRecordCategoryPrefix + ":" + category + ":")
}
