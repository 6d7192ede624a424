package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	jwthandling "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/jwt-handling"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
	"github.com/spf13/cobra"
)

type issuedToken struct {
	StaffUserID string
	Token       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "staff-tokens",
		Short:        "Issue access tokens for doctors using the follow-up API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv(ENV_CONFIG_FILE_PATH), "path to the yaml config file")

	root.AddCommand(newIssueCmd(&configPath))
	return root
}

func newIssueCmd(configPath *string) *cobra.Command {
	var (
		user      StaffUser
		expiresIn time.Duration
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print one token per staff user as <id><TAB><token>",
		Long: `Print one token per staff user as <id><TAB><token>.

Without --id, tokens are issued for every staff user listed in the config file.
Tokens are written to stdout only and never logged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			utils.InitLogger(conf.Logging)

			users := conf.StaffUsers
			if user.ID != "" {
				users = []StaffUser{user}
			}
			if len(users) == 0 {
				return fmt.Errorf("no staff users given, use --id or list staff_users in the config")
			}
			if expiresIn <= 0 {
				expiresIn = conf.StaffJWTConfig.ExpiresIn
			}

			tokens, err := issueTokens(users, expiresIn, conf.StaffJWTConfig.SignKey)
			if err != nil {
				return err
			}
			for _, t := range tokens {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.StaffUserID, t.Token)
			}
			slog.Info("Staff tokens issued", slog.Int("count", len(tokens)), slog.Duration("expiresIn", expiresIn))
			return nil
		},
	}
	cmd.Flags().StringVar(&user.ID, "id", "", "staff user id, becomes the token subject")
	cmd.Flags().StringVar(&user.Name, "name", "", "display name")
	cmd.Flags().StringVar(&user.Role, "role", jwthandling.STAFF_ROLE_DOCTOR, "staff role")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "token lifetime, defaults to the config value")
	return cmd
}

func issueTokens(users []StaffUser, expiresIn time.Duration, signKey string) ([]issuedToken, error) {
	tokens := make([]issuedToken, 0, len(users))
	for _, u := range users {
		if !utils.IsURLSafe(u.ID) {
			return nil, fmt.Errorf("invalid staff user id %q", u.ID)
		}
		role := u.Role
		if role == "" {
			role = jwthandling.STAFF_ROLE_DOCTOR
		}

		token, err := jwthandling.GenerateNewStaffUserToken(expiresIn, u.ID, u.Name, role, signKey)
		if err != nil {
			return nil, fmt.Errorf("staff user %s: %w", u.ID, err)
		}
		tokens = append(tokens, issuedToken{StaffUserID: u.ID, Token: token})
	}
	return tokens, nil
}
