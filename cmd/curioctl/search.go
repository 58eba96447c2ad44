package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	var mode, tagID, domain, urlPattern, sortBy string
	var entityTypes []string
	var limit, offset int

	searchCmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Search bookmarks, highlights and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userFlag == "" {
				return fmt.Errorf("--user required")
			}
			payload := map[string]interface{}{
				"query":  args[0],
				"userId": userFlag,
			}
			if mode != "" {
				payload["mode"] = mode
			}
			if len(entityTypes) > 0 {
				payload["entityTypes"] = entityTypes
			}
			if limit > 0 {
				payload["limit"] = limit
			}
			if offset > 0 {
				payload["offset"] = offset
			}
			if tagID != "" {
				payload["tagId"] = tagID
			}
			if domain != "" {
				payload["domain"] = domain
			}
			if urlPattern != "" {
				payload["urlPattern"] = urlPattern
			}
			if sortBy != "" {
				payload["sortBy"] = sortBy
			}
			data, err := do(newClient().R().SetBody(payload), http.MethodPost, "/v1/search")
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	searchCmd.Flags().StringVarP(&mode, "mode", "m", "", "Search mode: hybrid, lexical or semantic")
	searchCmd.Flags().StringSliceVarP(&entityTypes, "types", "t", nil, "Entity types to include (bookmark, highlight, comment)")
	searchCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Max results per page")
	searchCmd.Flags().IntVarP(&offset, "offset", "o", 0, "Result offset for pagination")
	searchCmd.Flags().StringVar(&tagID, "tag", "", "Restrict to bookmarks carrying this tag ID")
	searchCmd.Flags().StringVar(&domain, "domain", "", "Restrict to entries from this domain")
	searchCmd.Flags().StringVar(&urlPattern, "url", "", "Glob pattern the entry URL must match")
	searchCmd.Flags().StringVar(&sortBy, "sort", "", "Sort order: relevance or created")
	rootCmd.AddCommand(searchCmd)
}
