// Command galleryctl is a small operator client for the gallery service. It
// keeps a durable session (token + role) between invocations and mirrors the
// server's role checks before sending admin requests, so a plain user gets a
// local hint instead of a round trip ending in 403.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"vlabgallery/internal/auth"
	"vlabgallery/internal/client"
)

// views mirrors the server's route table for the client-side guard. The
// server remains the enforcement point; this only shapes the UX.
var views = map[string]client.Route{
	"list":   {Path: "/"},
	"login":  {Path: "/login"},
	"logout": {Path: "/login"},
	"upload": {Path: "/admin", AllowedRoles: []auth.Role{auth.RoleAdmin}},
	"update": {Path: "/admin", AllowedRoles: []auth.Role{auth.RoleAdmin}},
	"delete": {Path: "/admin", AllowedRoles: []auth.Role{auth.RoleAdmin}},
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	command := os.Args[1]

	flags := flag.NewFlagSet(command, flag.ExitOnError)
	server := flags.String("server", envOr("GALLERY_SERVER", "http://localhost:5000"), "gallery service base URL")
	email := flags.String("email", "", "email address (login)")
	password := flags.String("password", "", "password (login)")
	title := flags.String("title", "", "item title")
	description := flags.String("description", "", "item description")
	category := flags.String("category", "", "item category")
	image := flags.String("image", "", "path to image file (upload)")
	id := flags.Uint("id", 0, "item id (update/delete)")
	_ = flags.Parse(os.Args[2:])

	sessionPath, err := client.DefaultSessionPath()
	if err != nil {
		log.Fatalf("resolve session path: %v", err)
	}
	session := client.NewSession(sessionPath)

	route, ok := views[command]
	if !ok {
		usage()
		os.Exit(2)
	}
	switch client.CanEnter(route, session) {
	case client.RedirectLogin:
		log.Fatal("not logged in; run: galleryctl login --email ... --password ...")
	case client.RedirectHome:
		log.Fatalf("%q requires the admin role", command)
	}

	api := client.New(*server, session)
	ctx := context.Background()

	switch command {
	case "login":
		if *email == "" || *password == "" {
			log.Fatal("login requires --email and --password")
		}
		role, err := api.Login(ctx, *email, *password)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("logged in as %s (%s)\n", *email, role)

	case "logout":
		if err := api.Logout(ctx); err != nil {
			log.Fatal(err)
		}
		fmt.Println("logged out")

	case "list":
		items, err := api.List(ctx)
		if err != nil {
			log.Fatal(err)
		}
		for _, item := range items {
			uploader := "-"
			if item.Uploader != nil {
				uploader = item.Uploader.Email
			}
			fmt.Printf("%d\t%s\t%s\t%s\t%s\n", item.ID, item.Title, item.Category, uploader, item.ImageURL)
		}

	case "upload":
		if *image == "" {
			log.Fatal("upload requires --image")
		}
		item, err := api.Upload(ctx, *title, *description, *category, *image)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("uploaded item %d: %s\n", item.ID, item.ImageURL)

	case "update":
		if *id == 0 {
			log.Fatal("update requires --id")
		}
		item, err := api.UpdateItem(ctx, uint(*id),
			changedFlag(flags, "title", title),
			changedFlag(flags, "description", description),
			changedFlag(flags, "category", category))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("updated item %d: %s\n", item.ID, item.Title)

	case "delete":
		if *id == 0 {
			log.Fatal("delete requires --id")
		}
		if err := api.DeleteItem(ctx, uint(*id)); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("deleted item %d\n", *id)
	}
}

// changedFlag returns the flag's value only when it was set on the command
// line, so unset fields stay untouched server-side.
func changedFlag(flags *flag.FlagSet, name string, value *string) *string {
	if flags.Changed(name) {
		return value
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: galleryctl <command> [flags]

commands:
  login    --email --password        authenticate and store the session
  logout                             revoke the token and clear the session
  list                               list gallery items (public)
  upload   --title --image [...]     upload an image (admin)
  update   --id [--title ...]        edit an item (admin)
  delete   --id                      delete an item (admin)`)
}
