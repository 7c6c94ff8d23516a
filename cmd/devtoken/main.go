// Command devtoken issues an identity token signed with the server's
// configured key, for exercising the API locally without an identity provider.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/auth"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/config"
	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

func main() {
	fs := flag.NewFlagSet("devtoken", flag.ExitOnError)
	userID := fs.String("user", "", "User ID to issue the token for (required)")
	name := fs.String("name", "", "Display name carried in the token")
	ttl := fs.Duration("ttl", 24*time.Hour, "Token lifetime")
	_ = fs.Parse(os.Args[1:])

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "usage: devtoken -user <id> [-name <display name>] [-ttl 24h] [-- server flags]")
		os.Exit(2)
	}

	// Remaining arguments are server flags such as -data-path.
	cfg, err := config.Load(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	var key []byte
	if cfg.Auth.TokenKeyHex != "" {
		key, err = auth.ParseKeyHex(cfg.Auth.TokenKeyHex)
	} else {
		key, err = auth.LoadOrGenerateKey(cfg.Store.DataPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load token key: %v\n", err)
		os.Exit(1)
	}

	verifier, err := auth.NewTokenVerifier(key, cfg.Auth.Issuer, cfg.Auth.Audience)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create verifier: %v\n", err)
		os.Exit(1)
	}

	displayName := *name
	if displayName == "" {
		displayName = *userID
	}

	token, err := verifier.Issue(domain.Identity{UserID: *userID, DisplayName: displayName}, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
