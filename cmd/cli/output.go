package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/socialsimple/backend/internal/models"
)

func printSuccess(msg string, args ...interface{}) {
	color.New(color.FgGreen).Printf(msg+"\n", args...)
}

func printError(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
}

func printInfo(msg string, args ...interface{}) {
	color.New(color.FgCyan).Printf(msg+"\n", args...)
}

// printJSON writes v when --output json was given and reports whether it did.
func printJSON(v interface{}) (bool, error) {
	if outputFmt != "json" {
		return false, nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return true, err
	}
	fmt.Println(string(data))
	return true, nil
}

func printUser(u *models.UserRead) {
	bold := color.New(color.Bold)
	bold.Println(u.Email)
	fmt.Printf("  id:        %s\n", u.ID)
	fmt.Printf("  active:    %t\n", u.IsActive)
	fmt.Printf("  verified:  %t\n", u.IsVerified)
	fmt.Printf("  superuser: %t\n", u.IsSuperuser)
}

func printFeed(posts []models.PostView) {
	if len(posts) == 0 {
		printInfo("The feed is empty")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tOWNER\tCREATED\tCAPTION\tURL")
	for _, p := range posts {
		owner := p.Email
		if p.IsOwner {
			owner = color.GreenString("you")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.FileType, owner, p.CreatedAt, truncate(p.Caption, 40), p.URL)
	}
	w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
