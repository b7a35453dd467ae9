// Command apikey-gen mints an API key and prints the hash to put in
// server.api_key_hashes. The raw key is shown once and never stored.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spamrun/email-checker/internal/apikey"
)

var live = flag.Bool("live", false, "Generate a live key instead of a test key")

func main() {
	flag.Parse()

	key, err := apikey.Generate(*live)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate API key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("API key:  %s\n", key.Key)
	fmt.Printf("Hash:     %s\n", key.Hash)
	fmt.Printf("Prefix:   %s\n", key.Prefix)
	fmt.Println("\nStore only the hash. The key itself cannot be recovered.")
}
