package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var registerCmd = &cobra.Command{
	Use:   "register <email>",
	Short: "Create an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}
		user, err := api.Register(args[0], password)
		if err != nil {
			return err
		}
		if ok, err := printJSON(user); ok {
			return err
		}
		printSuccess("✓ Registered %s", user.Email)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Log in and store the access token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword()
		if err != nil {
			return err
		}
		token, err := api.Login(args[0], password)
		if err != nil {
			return err
		}
		if err := saveToken(token.AccessToken); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}
		printSuccess("✓ Logged in as %s", args[0])
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke and forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.Logout(); err != nil {
			logger.Warn("Server logout failed, forgetting token anyway", "err", err)
		}
		if err := saveToken(""); err != nil {
			return err
		}
		printSuccess("✓ Logged out")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the current account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := api.Me()
		if err != nil {
			return err
		}
		if ok, err := printJSON(user); ok {
			return err
		}
		printUser(user)
		return nil
	},
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Show every post, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		posts, err := api.Feed()
		if err != nil {
			return err
		}
		if ok, err := printJSON(posts); ok {
			return err
		}
		printFeed(posts)
		return nil
	},
}

var uploadCaption string

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload an image or video as a new post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("Uploading", "file", args[0])
		post, err := api.Upload(args[0], uploadCaption)
		if err != nil {
			return err
		}
		if ok, err := printJSON(post); ok {
			return err
		}
		printSuccess("✓ Posted %s (%s)", post.FileName, post.FileType)
		printInfo("  %s", post.URL)
		printInfo("  id: %s", post.ID)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <post-id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := api.DeletePost(args[0]); err != nil {
			return err
		}
		printSuccess("✓ Post deleted")
		return nil
	},
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadCaption, "caption", "c", "", "Caption for the post")
}

// readPassword prompts without echo on a terminal
func readPassword() (string, error) {
	fmt.Print("Password: ")
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}
