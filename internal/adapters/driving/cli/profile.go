package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
)

var profileCmd = &cobra.Command{
	Use:               "profile",
	Short:             "View and edit your profile",
	PersistentPreRunE: requireAuth,
	RunE:              runProfileShow,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	Args:  cobra.NoArgs,
	RunE:  runProfileShow,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	Long: `Updates profile fields. Fields without a flag keep their current value.

Examples:
  medmart profile update --bio "Cardiologist, 12 years of practice"
  medmart profile update --avatar ./me.png`,
	Args: cobra.NoArgs,
	RunE: runProfileUpdate,
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account",
	Args:  cobra.NoArgs,
	RunE:  runProfileDelete,
}

func init() {
	f := profileUpdateCmd.Flags()
	f.String("name", "", "full name")
	f.String("email", "", "email address")
	f.String("phone", "", "phone number")
	f.String("bio", "", "short biography")
	f.String("avatar", "", "path to an image to upload")

	profileDeleteCmd.Flags().Bool("yes", false, "confirm deletion")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd, profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(cmd *cobra.Command, _ []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}

	profile, err := userService.Profile(commandContext(cmd))
	if err != nil {
		return userError("loading profile", err)
	}
	printProfile(cmd, profile)
	return nil
}

func runProfileUpdate(cmd *cobra.Command, _ []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	ctx := commandContext(cmd)

	current, err := userService.EnsureLoaded(ctx)
	if err != nil {
		return userError("loading profile", err)
	}

	form := domain.ProfileForm{
		Name:        current.Name,
		Email:       current.Email,
		PhoneNumber: current.PhoneNumber,
		Bio:         current.Bio,
	}
	flags := cmd.Flags()
	override := func(name string, target *string) {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
	override("name", &form.Name)
	override("email", &form.Email)
	override("phone", &form.PhoneNumber)
	override("bio", &form.Bio)
	override("avatar", &form.AvatarPath)

	updated, err := userService.Update(ctx, form)
	if err != nil {
		return formError("profile update", err)
	}
	cmd.Println("Profile updated.")
	printProfile(cmd, updated)
	return nil
}

func runProfileDelete(cmd *cobra.Command, _ []string) error {
	if userService == nil {
		return errors.New("user service not configured")
	}
	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errors.New("refusing to delete the account without --yes")
	}

	if err := userService.DeleteAccount(commandContext(cmd)); err != nil {
		return userError("deleting account", err)
	}
	cmd.Println("Account deleted. You have been signed out.")
	return nil
}

func printProfile(cmd *cobra.Command, p *domain.UserProfile) {
	cmd.Printf("%s <%s>\n", p.Name, p.Email)
	cmd.Printf("  ID:     %d\n", p.ID)
	cmd.Printf("  Role:   %s\n", p.Role)
	cmd.Printf("  Phone:  %s\n", orDash(p.PhoneNumber))
	cmd.Printf("  Avatar: %s\n", orDash(p.Avatar))
	if p.Bio != "" {
		cmd.Println()
		cmd.Println(p.Bio)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
