package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"pairlog/pkg/store"
	"pairlog/pkg/utils"
)

// inspect opens a pairlog data directory directly and dumps its contents,
// for debugging a store without a running server. The server must not be
// running against the same directory.
func main() {
	var (
		dataPath = flag.String("db", "./.pairlog", "pairlog data directory")
		key      = flag.String("key", "", "print the raw JSON stored under this metadata key")
		blobs    = flag.Bool("blobs", false, "list blob IDs with their embedded timestamps")
	)
	flag.Parse()

	if err := store.Open(filepath.Join(*dataPath, "store")); err != nil {
		fmt.Fprintf(os.Stderr, "open store: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	if *key != "" {
		data, ok := store.LoadMeta(*key)
		if !ok {
			fmt.Fprintf(os.Stderr, "no value for key %q\n", *key)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if *blobs {
		ids, err := store.ListBlobIDs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "list blobs: %v\n", err)
			os.Exit(1)
		}
		for _, id := range ids {
			if t := utils.BlobIDTime(id); !t.IsZero() {
				fmt.Printf("%s\t%s\n", id, t.Format("2006-01-02 15:04:05"))
			} else {
				fmt.Printf("%s\t-\n", id)
			}
		}
		fmt.Fprintf(os.Stderr, "%d blobs\n", len(ids))
		return
	}

	keys, err := store.ListMetaKeys()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list keys: %v\n", err)
		os.Exit(1)
	}
	for _, k := range keys {
		data, _ := store.LoadMeta(k)
		fmt.Printf("%s\t%d bytes\n", k, len(data))
	}
}
