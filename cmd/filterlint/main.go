// Command filterlint reads a filter-list file, parses it, re-serializes it
// and reports any lines the parser could not interpret. It also serves
// prometheus metrics on the configured HTTP address for the duration of the
// run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/adblock-go/corestore"
	"github.com/adblock-go/corestore/metrics"
	"github.com/adblock-go/corestore/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	configPath := flag.String("config", "", "Path to a JSON config file (optional)")
	input := flag.String("in", "", "Path to a filter-list file to parse")
	flag.Parse()

	if *configPath != "" {
		b, err := os.ReadFile(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := json.Unmarshal(b, corestore.CONFIG); err != nil {
			log.Fatalf("parse config: %v", err)
		}
	}
	if *input == "" {
		log.Fatal("missing -in")
	}

	var failures int
	e := corestore.NewEngine()
	p := e.NewParser(store.WithOnFail(func(line, reason string) {
		failures++
		metrics.Default.ParseFailures.Inc()
		log.Printf("%s: %s", reason, line)
	}))

	f, err := os.Open(*input)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	var group errgroup.Group

	group.Go(func() error {
		if corestore.CONFIG.HTTP.URL == "" {
			return nil
		}
		return metrics.Httpd(corestore.CONFIG.HTTP.URL)
	})

	if err := p.Process(f); err != nil {
		log.Fatal(err)
	}
	metrics.Default.FiltersInterned.Set(float64(e.Filters.Len()))
	for i := 0; i < p.SubscriptionCount(); i++ {
		metrics.Default.SubscriptionsRegistered.Inc()
	}

	sr := store.NewSerializer()
	for i := 0; i < p.SubscriptionCount(); i++ {
		sr.Serialize(p.SubscriptionAt(i))
	}
	out := sr.GetData()
	metrics.Default.BytesSerialized.Add(float64(len(out)))
	sr.Close()

	fmt.Printf("parsed %d subscription(s), %d failure(s)\n", p.SubscriptionCount(), failures)

	if corestore.CONFIG.HTTP.URL == "" {
		return
	}
	log.Fatal(group.Wait())
}
