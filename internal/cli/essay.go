package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func newEssayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "essay",
		Short: "Essay commands",
	}

	cmd.AddCommand(newEssaySubmitCmd())
	cmd.AddCommand(newEssayListCmd())
	cmd.AddCommand(newEssayShowCmd())

	return cmd
}

func newEssaySubmitCmd() *cobra.Command {
	var title, content, file string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an essay for evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if content == "" && file == "" {
				return fmt.Errorf("either --content or --file is required")
			}
			if content == "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("failed to read essay file: %w", err)
				}
				content = string(data)
			}

			req := map[string]string{
				"title":   title,
				"content": content,
			}
			var result Essay

			if err := client.Post("/api/v1/essays", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Essay title")
	cmd.Flags().StringVar(&content, "content", "", "Essay content")
	cmd.Flags().StringVar(&file, "file", "", "Read essay content from a file")

	return cmd
}

func newEssayListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your essays, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/essays"
			if limit > 0 {
				path = fmt.Sprintf("%s?limit=%d", path, limit)
			}

			var result EssayList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of essays to show (0 = all)")

	return cmd
}

func newEssayShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one essay with its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid essay id: %s", args[0])
			}

			var result Essay
			if err := client.Get(fmt.Sprintf("/api/v1/essays/%d", id), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			if cfg.Output != "json" && result.Content != "" {
				fmt.Println("\n" + result.Content)
			}
			return nil
		},
	}
}
