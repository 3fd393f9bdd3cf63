// seed_assets.go — standalone script to parse a collection manifest CSV and
// register assets via the rarityd API.
//
// The manifest has one row per asset:
//
//	asset_id,background,body,eyes,accessory,special
//
// Usage:
//
//	go run scripts/seed_assets.go -manifest /path/to/collection.csv -api http://localhost:8700 -caller seed
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

type assetRow struct {
	AssetID    string            `json:"asset_id"`
	Attributes map[string]uint32 `json:"attributes"`
}

var traitColumns = []string{"background", "body", "eyes", "accessory", "special"}

func main() {
	manifestPath := flag.String("manifest", "collection.csv", "path to collection manifest CSV")
	apiURL := flag.String("api", "http://localhost:8700", "rarityd API base URL")
	callerID := flag.String("caller", "seed", "X-Caller-ID header value")
	dryRun := flag.Bool("dry-run", false, "print assets without posting")
	flag.Parse()

	f, err := os.Open(*manifestPath)
	if err != nil {
		log.Fatalf("open manifest: %v", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		log.Fatalf("read manifest: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("empty manifest")
	}

	// Optional header row
	start := 0
	if strings.EqualFold(records[0][0], "asset_id") {
		start = 1
	}

	var rows []assetRow
	for i, rec := range records[start:] {
		if len(rec) != len(traitColumns)+1 {
			log.Printf("skip row %d: expected %d columns, got %d", i+start+1, len(traitColumns)+1, len(rec))
			continue
		}
		row := assetRow{AssetID: strings.TrimSpace(rec[0]), Attributes: make(map[string]uint32, len(traitColumns))}
		ok := true
		for j, trait := range traitColumns {
			v, err := strconv.ParseUint(strings.TrimSpace(rec[j+1]), 10, 32)
			if err != nil {
				log.Printf("skip row %d: bad %s value %q", i+start+1, trait, rec[j+1])
				ok = false
				break
			}
			row.Attributes[trait] = uint32(v)
		}
		if ok {
			rows = append(rows, row)
		}
	}

	log.Printf("parsed %d assets from %s", len(rows), *manifestPath)

	if *dryRun {
		for i, row := range rows {
			fmt.Printf("[%d] %s (background=%d, body=%d, eyes=%d, accessory=%d, special=%d)\n",
				i+1, row.AssetID,
				row.Attributes["background"], row.Attributes["body"], row.Attributes["eyes"],
				row.Attributes["accessory"], row.Attributes["special"])
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, row := range rows {
		body, _ := json.Marshal(row)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/assets", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %q: %v", row.AssetID, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Caller-ID", *callerID)

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %q: %v", row.AssetID, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %q: status %d", row.AssetID, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}
