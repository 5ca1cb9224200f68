package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Profile commands",
	}

	cmd.AddCommand(newProfileShowCmd())
	cmd.AddCommand(newProfileUpdateCmd())

	return cmd
}

func newProfileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get("/api/v1/profile", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProfileUpdateCmd() *cobra.Command {
	var name, bio, avatar, email string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Only send the flags that were actually set
			req := map[string]string{}
			if cmd.Flags().Changed("name") {
				req["full_name"] = name
			}
			if cmd.Flags().Changed("bio") {
				req["bio"] = bio
			}
			if cmd.Flags().Changed("avatar") {
				req["avatar_url"] = avatar
			}
			if cmd.Flags().Changed("email") {
				req["email"] = email
			}
			if len(req) == 0 {
				return fmt.Errorf("nothing to update: pass at least one of --name, --bio, --avatar, --email")
			}

			var result User
			if err := client.Patch("/api/v1/profile", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&bio, "bio", "", "Bio")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().StringVar(&email, "email", "", "Email address")

	return cmd
}
