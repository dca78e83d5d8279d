// hhctl is a terminal client for a herohub server: it drives the same
// session kernel the mobile shell uses, persisting the token between runs.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"golang.org/x/term"

	"herohub/internal/client"
	"herohub/internal/navigation"
	"herohub/internal/session"
)

func main() {
	serverURL := flag.String("server", envOr("HEROHUB_SERVER", "http://localhost:8080"), "server base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	storagePath, err := client.DefaultStoragePath()
	if err != nil {
		fatal("resolve config dir: %v", err)
	}
	backend := client.NewBackend(*serverURL)
	provider := session.NewProvider(backend, client.NewFileStorage(storagePath))

	ctx := context.Background()
	state := provider.Initialize(ctx)

	switch flag.Arg(0) {
	case "login":
		runLogin(ctx, provider)
	case "logout":
		provider.Logout(ctx)
		fmt.Println("logged out")
	case "whoami":
		runWhoami(ctx, provider, state)
	case "menu":
		runMenu(ctx, backend, provider, state)
	default:
		usage()
		os.Exit(2)
	}
}

func runLogin(ctx context.Context, provider *session.Provider) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fatal("read password: %v", err)
	}
	fmt.Print("MFA code (blank if none): ")
	mfaCode, _ := reader.ReadString('\n')

	_, err = provider.Login(ctx, session.Credentials{
		Email:    strings.TrimSpace(email),
		Password: string(password),
		MFACode:  strings.TrimSpace(mfaCode),
	})
	if err != nil {
		fatal("login failed: %v", err)
	}
	ident := provider.Current()
	fmt.Printf("signed in as %s (%s)\n", ident.DisplayName, ident.Role)
}

func runWhoami(ctx context.Context, provider *session.Provider, state session.State) {
	if state != session.StateAuthenticated {
		fatal("not signed in; run `hhctl login`")
	}
	if err := provider.RefreshIdentity(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: refresh failed, showing cached identity: %v\n", err)
	}
	ident := provider.Current()
	fmt.Printf("%s <%s>\nrole: %s\n", ident.DisplayName, ident.Email, ident.Role)
	for _, module := range modulesOf(ident) {
		perm := ident.Permissions[module]
		fmt.Printf("  %-16s read=%v write=%v delete=%v\n", module, perm.CanRead, perm.CanWrite, perm.CanDelete)
	}
}

// runMenu asks the server which entries the caller may see; the local gate
// is only the offline fallback, so both sides render the same menu.
func runMenu(ctx context.Context, backend *client.Backend, provider *session.Provider, state session.State) {
	if state != session.StateAuthenticated {
		fatal("not signed in; run `hhctl login`")
	}
	entries, err := backend.Menu(ctx, provider.Token())
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: menu fetch failed, showing cached view: %v\n", err)
		for _, entry := range navigation.VisibleMenuEntries(provider.Current(), navigation.DefaultMenu) {
			fmt.Printf("%-16s %s\n", entry.Name, entry.Path)
		}
		return
	}
	for _, entry := range entries {
		fmt.Printf("%-16s %s\n", entry.Name, entry.Path)
	}
}

func modulesOf(ident *session.Identity) []string {
	out := make([]string, 0, len(ident.Permissions))
	for module := range ident.Permissions {
		out = append(out, module)
	}
	sort.Strings(out)
	return out
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: hhctl [-server URL] <login|logout|whoami|menu>")
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
