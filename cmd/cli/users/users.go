package users

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rcardoso/feedbase/cmd/cli/config"
	"github.com/rcardoso/feedbase/cmd/cli/output"
	"github.com/spf13/cobra"
)

type user struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// ==========================
// Init Users
// ==========================
func InitUsers(rootCmd *cobra.Command) {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
	}

	usersCmd.AddCommand(listUsersCmd(), whoamiCmd())
	rootCmd.AddCommand(usersCmd)
}

// ==========================
// LIST
// ==========================
func listUsersCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			url := fmt.Sprintf("%s/users?limit=%d&offset=%d", config.APIURL(), limit, offset)
			req, _ := http.NewRequest("GET", url, nil)
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

			var out struct {
				Items []user `json:"items"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(out.Items))
			for _, u := range out.Items {
				admin := ""
				if u.IsAdmin {
					admin = "admin"
				}
				rows = append(rows, []interface{}{u.ID, u.Name, u.Email, admin})
			}
			output.RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "max users to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")

	return cmd
}

// ==========================
// WHOAMI
// ==========================
func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := config.LoadToken()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			req, _ := http.NewRequest("GET", config.APIURL()+"/me", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
			}

			var me user
			if err := json.Unmarshal(b, &me); err != nil {
				return err
			}
			fmt.Printf("%s <%s>", me.Name, me.Email)
			if me.IsAdmin {
				fmt.Print(" (admin)")
			}
			fmt.Println()
			return nil
		},
	}
}
