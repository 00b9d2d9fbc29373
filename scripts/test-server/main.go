package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Marker bytes recognized by the monitor's response classifier.
const (
	markerA = 0x80
	markerB = 0x81
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	// Use all CPU cores
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Simple handler that responds immediately
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	// Marker endpoints: bodies carrying the classifier sentinel bytes
	http.HandleFunc("/marker/a", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{'o', 'k', markerA})
	})
	http.HandleFunc("/marker/b", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{'o', 'k', markerB})
	})
	http.HandleFunc("/marker/both", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{'o', 'k', markerA, markerB})
	})

	// /delay/{duration} sleeps before responding, e.g. /delay/250ms
	http.HandleFunc("/delay/", func(w http.ResponseWriter, r *http.Request) {
		d, err := time.ParseDuration(strings.TrimPrefix(r.URL.Path, "/delay/"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		time.Sleep(d)
		fmt.Fprintf(w, "slept %s", d)
	})

	// /status/{code} responds with the given status, e.g. /status/503
	http.HandleFunc("/status/", func(w http.ResponseWriter, r *http.Request) {
		code, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/status/"))
		if err != nil || code < 100 || code > 599 {
			http.Error(w, "bad status code", http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
		fmt.Fprint(w, http.StatusText(code))
	})

	// Health check
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "healthy")
	})

	// Configure server for high throughput
	server := &http.Server{
		Addr:              *addr,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
	}

	log.Printf("Starting test server on %s", *addr)
	log.Printf("Using %d CPU cores", runtime.NumCPU())

	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
