package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/medmart-cli/internal/core/domain"
	"github.com/custodia-labs/medmart-cli/internal/core/services"
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign up and sign out",
	Long: `Manage your marketplace account session.

The session token is stored in the local database and sent as a bearer token
with every request until it expires or you log out.

Examples:
  medmart auth login --email jane@example.com
  medmart auth signup --name "Jane Doe" --email jane@example.com --role doctor
  medmart auth status
  medmart auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to your account",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignup,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().String("email", "", "account email")
	authLoginCmd.Flags().String("password", "", "password (prompted when omitted)")

	authSignupCmd.Flags().String("name", "", "full name")
	authSignupCmd.Flags().String("email", "", "account email")
	authSignupCmd.Flags().String("password", "", "password (prompted when omitted)")
	authSignupCmd.Flags().String("role", "patient", "account role: patient or doctor")

	authCmd.AddCommand(authLoginCmd, authSignupCmd, authLogoutCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	reader := bufio.NewReader(stdin)

	form := domain.LoginForm{
		Email:    flagOrPrompt(cmd, reader, "email", "Email: "),
		Password: passwordFlagOrPrompt(cmd, reader),
	}

	user, err := authService.Login(commandContext(cmd), form)
	if err != nil {
		return formError("login", err)
	}
	cmd.Printf("Signed in as %s (%s).\n", user.Name, user.Role)
	return nil
}

func runAuthSignup(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	reader := bufio.NewReader(stdin)

	roleFlag, _ := cmd.Flags().GetString("role")
	role, ok := domain.ParseRole(roleFlag)
	if !ok {
		return fmt.Errorf("invalid role %q: use patient or doctor", roleFlag)
	}

	form := domain.SignupForm{
		Name:     flagOrPrompt(cmd, reader, "name", "Name: "),
		Email:    flagOrPrompt(cmd, reader, "email", "Email: "),
		Password: passwordFlagOrPrompt(cmd, reader),
		Role:     role,
	}

	user, err := authService.Signup(commandContext(cmd), form)
	if err != nil {
		return formError("signup", err)
	}
	cmd.Printf("Welcome, %s. Your account was created as a %s.\n", user.Name, user.Role)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	if err := authService.Logout(commandContext(cmd)); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}
	cmd.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}
	ctx := commandContext(cmd)

	if !authService.IsTokenValid(ctx) {
		cmd.Println("Not signed in.")
		return nil
	}
	user, err := authService.CurrentUser(ctx)
	if err != nil {
		return userError("loading account", err)
	}

	cmd.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	cmd.Printf("  Role: %s\n", user.Role)
	if session, err := authService.Session(ctx); err == nil {
		cmd.Printf("  Token expires: %s\n", formatExpiry(session.ExpiresAt, time.Now()))
	}
	return nil
}

// formError prints each failed field on its own line.
func formError(action string, err error) error {
	var verr *services.ValidationError
	if !errors.As(err, &verr) {
		return userError(action, err)
	}
	lines := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", f.Field, f.Message))
	}
	return fmt.Errorf("%s failed:\n%s", action, strings.Join(lines, "\n"))
}

func flagOrPrompt(cmd *cobra.Command, reader *bufio.Reader, name, prompt string) string {
	if v, _ := cmd.Flags().GetString(name); v != "" {
		return v
	}
	cmd.Print(prompt)
	return readLine(reader)
}

func passwordFlagOrPrompt(cmd *cobra.Command, reader *bufio.Reader) string {
	if v, _ := cmd.Flags().GetString("password"); v != "" {
		return v
	}
	cmd.Print("Password: ")
	password := readPassword(reader)
	cmd.Println()
	return password
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func readPassword(reader *bufio.Reader) string {
	// Read without echo when attached to a terminal.
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func formatExpiry(expires, now time.Time) string {
	if expires.IsZero() {
		return "never"
	}
	left := expires.Sub(now).Round(time.Minute)
	if left <= 0 {
		return "expired"
	}
	return fmt.Sprintf("in %s", left)
}
