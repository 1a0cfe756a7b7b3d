package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/krishiapp/krishi-settings/internal/domain"
	"github.com/krishiapp/krishi-settings/internal/store"
)

const prefix = "settings:"

func main() {
	dbPath := os.Getenv("STORE_PATH")
	if dbPath == "" {
		dbPath = os.ExpandEnv("$HOME/Krishi/settings")
	}

	opts := badger.DefaultOptions(dbPath).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	facts := domain.DefaultProfileFacts()
	if v := os.Getenv("PROFILE_LOCATION"); v != "" {
		facts.Location = v
	}
	if v := os.Getenv("PROFILE_EARNINGS"); v != "" {
		facts.Earnings = v
	}

	fmt.Println("=== Settings Store Inspection ===")
	fmt.Println()

	bags := 0
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), prefix)

			err := item.Value(func(val []byte) error {
				rec, err := store.Decode(val)
				if err != nil {
					return err
				}
				bags++
				printRecord(key, rec, facts)
				return nil
			})
			if err != nil {
				log.Printf("Error reading bag %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating database: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Settings bags: %d\n", bags)
}

func printRecord(key string, rec store.Record, facts domain.ProfileFacts) {
	fmt.Printf("Bag: %s\n", key)
	fmt.Printf("  Revision: %s\n", rec.Revision)
	fmt.Printf("  Updated:  %s\n", rec.UpdatedAt.Format("2006-01-02 15:04:05 MST"))

	// Fields that differ from the stock defaults are starred.
	changed := rec.Settings.Diff(domain.DefaultUserSettings())
	values := rec.Settings.ToMap()
	for _, f := range domain.Fields() {
		marker := ""
		if slices.Contains(changed, f) {
			marker = "  *"
		}
		fmt.Printf("    %-20s %v%s\n", f, values[string(f)], marker)
	}

	profile := domain.NewPublicProfile(rec.Settings, facts)
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("  ", "  ")
	if err := enc.Encode(profile); err != nil {
		log.Printf("Error encoding public profile: %v", err)
		return
	}
	fmt.Printf("  Public profile (theme %s):\n  %s\n", rec.Settings.Theme(), buf.String())
}
