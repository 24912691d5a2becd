package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idSeq uint64

func genID(kind string) string {
	n := time.Now().UTC().UnixNano()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("%s-%d-%d", kind, n, s)
}

// GenPairID generates a unique pair ID from the current UTC nanosecond
// timestamp and an atomic sequence number. The format is "pair-<ts>-<seq>".
func GenPairID() string { return genID("pair") }

// GenFolderID generates a unique folder ID.
func GenFolderID() string { return genID("folder") }

// GenConvoID generates a unique conversation ID.
func GenConvoID() string { return genID("convo") }

// GenMessageID generates a unique message ID.
func GenMessageID() string { return genID("msg") }

// GenStickerID generates a unique sticker ID.
func GenStickerID() string { return genID("sticker") }

// GenVersionID generates a unique character-version ID.
func GenVersionID() string { return genID("v") }

// GenBlobID generates a unique blob ID. The embedded timestamp lets the
// sweeper derive a blob's age without a separate metadata record.
func GenBlobID() string { return genID("blob") }

// BlobIDTime extracts the creation timestamp embedded in a blob ID. It
// returns the zero time when the ID does not carry one.
func BlobIDTime(id string) time.Time {
	var ns int64
	var seq uint64
	if _, err := fmt.Sscanf(id, "blob-%d-%d", &ns, &seq); err != nil {
		return time.Time{}
	}
	return time.Unix(0, ns).UTC()
}
