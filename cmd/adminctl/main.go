// adminctl provisions messenger accounts through the server's admin
// REST routes. There is no self-registration: operators create accounts
// and hand out credentials.
//
// Usage:
//
//	adminctl create-user -username alice -password 'secret1pass' [-admin]
//	adminctl reset-password -username alice -password 'newsecret1'
//	adminctl seed
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

type client struct {
	addr     string
	adminKey string
	http     *http.Client
}

func main() {
	_ = godotenv.Load()
	cfg, err := LoadConfig()
	if err != nil {
		color.Red.Printf("Config error: %v\n", err)
		os.Exit(2)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	c := client{addr: cfg.ServerAddr, adminKey: cfg.AdminKey, http: http.DefaultClient}

	switch os.Args[1] {
	case "create-user":
		fs := flag.NewFlagSet("create-user", flag.ExitOnError)
		username := fs.String("username", "", "account name")
		password := fs.String("password", "", "initial password")
		admin := fs.Bool("admin", false, "grant the administrative flag")
		_ = fs.Parse(os.Args[2:])
		exit(c.createUser(*username, *password, *admin))
	case "reset-password":
		fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
		username := fs.String("username", "", "account name")
		password := fs.String("password", "", "new password")
		_ = fs.Parse(os.Args[2:])
		exit(c.resetPassword(*username, *password))
	case "seed":
		exit(c.seed())
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: adminctl <create-user|reset-password|seed> [flags]")
}

func exit(err error) {
	if err != nil {
		color.Red.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

func (c client) createUser(username, password string, admin bool) error {
	if username == "" || password == "" {
		return fmt.Errorf("both -username and -password are required")
	}
	if err := c.post("/api/admin/create-user", map[string]any{
		"username": username,
		"password": password,
		"isAdmin":  admin,
	}); err != nil {
		return err
	}
	color.Green.Printf("Created user %s (admin=%t)\n", username, admin)
	return nil
}

func (c client) resetPassword(username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("both -username and -password are required")
	}
	if err := c.post("/api/admin/reset-password", map[string]any{
		"username":    username,
		"newPassword": password,
	}); err != nil {
		return err
	}
	color.Green.Printf("Password reset for %s\n", username)
	return nil
}

// seed provisions a demo pair of accounts, skipping the ones that
// already exist, and prints the outcome as a table.
func (c client) seed() error {
	seeds := []struct {
		Username string
		Password string
		Admin    bool
	}{
		{"alice", "alice1pass", false},
		{"bob", "bobpass123", false},
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Username", "Admin", "Result"})
	table.SetBorder(false)

	for _, seed := range seeds {
		result := "created"
		err := c.post("/api/admin/create-user", map[string]any{
			"username": seed.Username,
			"password": seed.Password,
			"isAdmin":  seed.Admin,
		})
		if err != nil {
			result = err.Error()
		}
		table.Append([]string{seed.Username, fmt.Sprintf("%t", seed.Admin), result})
	}

	table.Render()
	return nil
}

func (c client) post(path string, body map[string]any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.addr+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-admin-key", c.adminKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}
	return nil
}
