// faucet-sealsecret seals a treasury secret (mnemonic or raw key) into the
// encrypted envelope consumed via TREASURY_SECRET_FILE.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"tbnb-faucet/go-gateway/internal/securestore"
)

func main() {
	out := flag.String("out", "treasury.secret", "output path for the sealed secret")
	flag.Parse()

	passphrase := os.Getenv("TREASURY_SECRET_PASSPHRASE")
	if passphrase == "" {
		log.Fatal("TREASURY_SECRET_PASSPHRASE must be set")
	}

	fmt.Fprintln(os.Stderr, "Paste the treasury secret and press Enter:")
	reader := bufio.NewReader(os.Stdin)
	secret, err := reader.ReadString('\n')
	if err != nil {
		log.Fatalf("read secret: %v", err)
	}
	secret = strings.TrimSpace(secret)
	if secret == "" {
		log.Fatal("empty secret")
	}

	if err := securestore.WriteSecretFile(*out, passphrase, secret); err != nil {
		log.Fatalf("seal secret: %v", err)
	}
	fmt.Fprintf(os.Stderr, "sealed secret written to %s\n", *out)
}
