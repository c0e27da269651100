package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rolecoach/rolecoach/internal/types"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage accounts and the current identity",
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new account",
	RunE:  runAuthSignup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and switch the session to this identity",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out the current identity",
	RunE:  runAuthLogout,
}

var authVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify an account with its code",
	RunE:  runAuthVerify,
}

var authUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List all accounts",
	RunE:  runAuthUsers,
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	RunE:  runAuthWhoami,
}

var (
	authName     string
	authEmail    string
	authPassword string
	authCode     string
)

func init() {
	authSignupCmd.Flags().StringVarP(&authName, "name", "n", "", "Display name (required)")
	authSignupCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address (required)")
	authSignupCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password (required)")
	_ = authSignupCmd.MarkFlagRequired("name")
	_ = authSignupCmd.MarkFlagRequired("email")
	_ = authSignupCmd.MarkFlagRequired("password")

	authLoginCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address (required)")
	authLoginCmd.Flags().StringVarP(&authPassword, "password", "p", "", "Password (required)")
	_ = authLoginCmd.MarkFlagRequired("email")
	_ = authLoginCmd.MarkFlagRequired("password")

	authVerifyCmd.Flags().StringVarP(&authEmail, "email", "e", "", "Email address (required)")
	authVerifyCmd.Flags().StringVar(&authCode, "code", "", "Verification code (required)")
	_ = authVerifyCmd.MarkFlagRequired("email")
	_ = authVerifyCmd.MarkFlagRequired("code")

	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authVerifyCmd)
	authCmd.AddCommand(authUsersCmd)
	authCmd.AddCommand(authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSignup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.dir.SignUp(ctx, types.SignUpRequest{
		Name:     authName,
		Email:    authEmail,
		Password: authPassword,
	})
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.Message)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Account created. Verification code: %s\n", result.Code)
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.dir.SignIn(ctx, types.SignInRequest{
		Email:    authEmail,
		Password: authPassword,
	})
	if err != nil {
		return err
	}
	if !result.OK {
		if result.Code != "" {
			return fmt.Errorf("%s (new verification code: %s)", result.Message, result.Code)
		}
		return fmt.Errorf("%s", result.Message)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", result.User.Name, result.User.Role)
	if result.Token != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Session token: %s\n", result.Token)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.dir.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func runAuthVerify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.dir.VerifyEmail(ctx, authEmail, authCode)
	if err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("%s", result.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Account verified. You can now sign in.")
	return nil
}

func runAuthUsers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	users, err := a.dir.ListUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		verified := " "
		if user.Verified {
			verified = "✓"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-6s %-30s %s\n", verified, user.Role, user.Email, user.Name)
	}
	return nil
}

func runAuthWhoami(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.dir.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
	return nil
}
