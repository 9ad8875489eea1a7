package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and persist the credential",
	Long: `Sign in to Cursos UC. With CREDENTIAL_BACKEND=redis the credential
outlives this process and later commands run signed in.

Examples:
  cursosuc login --email ana@uc.cl --password secreto`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard the persisted credential",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	user, err := a.session.Login(ctx, email, password)
	if err != nil {
		if msg := a.session.Err(); msg != "" {
			return errors.New(msg)
		}
		return err
	}

	if jsonOut {
		return printJSON(user)
	}
	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)
	if !user.IsVerified {
		fmt.Println("Account not verified yet")
	}
	return nil
}

func runLogout(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	a.session.Logout(ctx)
	fmt.Println("Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	user, ok := a.session.CurrentUser()
	if !ok {
		fmt.Println("Not signed in")
		return nil
	}
	if jsonOut {
		return printJSON(user)
	}
	fmt.Printf("%s <%s>\n", user.Name, user.Email)
	return nil
}
