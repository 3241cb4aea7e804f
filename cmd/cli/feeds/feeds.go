package feeds

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rcardoso/feedbase/cmd/cli/config"
	"github.com/rcardoso/feedbase/cmd/cli/output"
	"github.com/spf13/cobra"
)

type feed struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	URL           string     `json:"url"`
	IsActive      bool       `json:"is_active"`
	IsPublic      bool       `json:"is_public"`
	LastCheckedAt *time.Time `json:"last_checked_at"`
	LastCheckOK   *bool      `json:"last_check_ok"`
}

// ==========================
// Init Feeds
// ==========================
func InitFeeds(rootCmd *cobra.Command) {
	feedsCmd := &cobra.Command{
		Use:   "feeds",
		Short: "Manage feeds",
	}

	feedsCmd.AddCommand(
		listFeedsCmd(),
		createFeedCmd(),
	)

	rootCmd.AddCommand(feedsCmd)
}

// ==========================
// LIST
// ==========================
func listFeedsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List feeds visible to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/feeds", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var items []feed
			if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(items))
			for _, f := range items {
				rows = append(rows, []interface{}{
					f.ID, f.Name, f.URL, yesNo(f.IsActive), yesNo(f.IsPublic), lastCheck(f),
				})
			}
			output.RenderTable([]string{"ID", "NAME", "URL", "ACTIVE", "PUBLIC", "LAST CHECK"}, rows)
			return nil
		},
	}
}

// ==========================
// CREATE
// ==========================
func createFeedCmd() *cobra.Command {
	var name, url string
	var active, public bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			payload := map[string]interface{}{
				"name":      name,
				"url":       url,
				"is_active": active,
				"is_public": public,
			}
			body, _ := json.Marshal(payload)

			req, _ := http.NewRequest("POST", config.APIURL()+"/feeds", bytes.NewBuffer(body))
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusCreated {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var created feed
			if err := json.Unmarshal(b, &created); err != nil {
				return err
			}
			fmt.Printf("Feed %s created (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "feed name")
	cmd.Flags().StringVar(&url, "url", "", "feed URL")
	cmd.Flags().BoolVar(&active, "active", true, "whether the feed is polled")
	cmd.Flags().BoolVar(&public, "public", false, "visible to all users (admin only)")

	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func lastCheck(f feed) string {
	if f.LastCheckedAt == nil || f.LastCheckOK == nil {
		return "-"
	}
	status := "ok"
	if !*f.LastCheckOK {
		status = "failed"
	}
	return fmt.Sprintf("%s (%s)", f.LastCheckedAt.Format("2006-01-02 15:04"), status)
}
