package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	bookmarksCmd := &cobra.Command{Use: "bookmarks", Short: "Bookmark operations"}

	var url, title, description, siteName, visibility string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a bookmark",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" || url == "" {
				return fmt.Errorf("--user and --url required")
			}
			payload := map[string]interface{}{"userId": userFlag, "url": url}
			if title != "" {
				payload["title"] = title
			}
			if description != "" {
				payload["description"] = description
			}
			if siteName != "" {
				payload["siteName"] = siteName
			}
			if visibility != "" {
				payload["visibility"] = visibility
			}
			data, err := do(newClient().R().SetBody(payload), http.MethodPost, "/v1/bookmarks")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	createCmd.Flags().StringVar(&url, "url", "", "Bookmarked URL (required)")
	createCmd.Flags().StringVar(&title, "title", "", "Page title")
	createCmd.Flags().StringVar(&description, "description", "", "Free-form description")
	createCmd.Flags().StringVar(&siteName, "site", "", "Site name")
	createCmd.Flags().StringVar(&visibility, "visibility", "", "private, friends or public")
	_ = createCmd.MarkFlagRequired("url")
	bookmarksCmd.AddCommand(createCmd)

	getCmd := &cobra.Command{
		Use:   "get BOOKMARK_ID",
		Short: "Get a bookmark by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := do(newClient().R(), http.MethodGet, "/v1/bookmarks/"+args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	bookmarksCmd.AddCommand(getCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete BOOKMARK_ID",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := do(newClient().R(), http.MethodDelete, "/v1/bookmarks/"+args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	bookmarksCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(bookmarksCmd)
}
