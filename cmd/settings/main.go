package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dumu-tech/boomerang/internal/adapters/messenger"
	"github.com/dumu-tech/boomerang/internal/config"
	"github.com/dumu-tech/boomerang/internal/core"
)

// menuFlag collects repeated -menu "Title=payload" or "Title=https://url" entries
type menuFlag []string

func (m *menuFlag) String() string     { return strings.Join(*m, ",") }
func (m *menuFlag) Set(v string) error { *m = append(*m, v); return nil }

func main() {
	var (
		accountLinkURL string
		domains        string
		getStarted     string
		greeting       string
		menu           menuFlag
	)
	flag.StringVar(&accountLinkURL, "account-link-url", "", "account linking URL")
	flag.StringVar(&domains, "whitelist", "", "comma separated domains to whitelist")
	flag.StringVar(&getStarted, "get-started", "", "Get Started button payload")
	flag.StringVar(&greeting, "greeting", "", "greeting text")
	flag.Var(&menu, "menu", "persistent menu item as Title=payload or Title=https://url (repeatable)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	settings := core.ThreadSettings{
		AccountLinkURL:    accountLinkURL,
		GetStartedPayload: getStarted,
		GreetingText:      greeting,
	}
	if domains != "" {
		for _, d := range strings.Split(domains, ",") {
			if d = strings.TrimSpace(d); d != "" {
				settings.WhitelistedDomains = append(settings.WhitelistedDomains, d)
			}
		}
	}
	for _, item := range menu {
		button, err := parseMenuItem(item)
		if err != nil {
			log.Fatalf("Invalid menu item %q: %v", item, err)
		}
		settings.MenuButtons = append(settings.MenuButtons, button)
	}

	fmt.Println("===========================================")
	fmt.Println("Messenger Thread Settings Tool")
	fmt.Println("===========================================")
	fmt.Printf("Graph URL: %s\n", cfg.GraphURL)
	fmt.Println()

	client, err := newClient(cfg)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()

	if err := client.SetThreadSettings(ctx, settings); err != nil {
		var apiErr *core.APIError
		if errors.As(err, &apiErr) {
			log.Fatalf("Messenger rejected the settings (code %d, subcode %d): %s", apiErr.Code, apiErr.Subcode, apiErr.Message)
		}
		log.Fatalf("Failed to apply thread settings: %v", err)
	}

	fmt.Printf("✓ Thread settings applied at %s\n", time.Now().Format(time.RFC3339))
}

// newClient builds the Graph API client, failing instead of panicking when
// the page token is missing
func newClient(cfg *config.Config) (*messenger.Client, error) {
	if cfg.PageToken == "" {
		return nil, errors.New("MESSENGER_PAGE_TOKEN is required")
	}
	return messenger.NewClient(cfg.PageToken,
		messenger.WithBaseURL(cfg.GraphURL),
		messenger.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	), nil
}

func parseMenuItem(item string) (core.Button, error) {
	title, target, ok := strings.Cut(item, "=")
	if !ok {
		return nil, errors.New("expected Title=payload")
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return core.NewURLButton(title, target)
	}
	return core.NewPostbackButton(title, target)
}
