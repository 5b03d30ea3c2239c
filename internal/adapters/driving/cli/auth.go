package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage API credentials",
	Long: `Store the record store, tunnel relay and map platform credentials
in the config file (0600). Credentials set in the environment
(AIRTABLE_API_KEY, NGROK_AUTHTOKEN, FELT_API_KEY) always take
precedence over the file.`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set credentials and connection ids",
	Long: `Set credentials interactively or via flags. Secrets prompted
interactively are read without echo. An empty answer keeps the
current value.

Examples:
  # Interactive
  mapsync auth set

  # Non-interactive
  mapsync auth set --store-key "patXXX" --store-base appXXX --store-table Submissions \
    --tunnel-token "2abc..." --map-key "felt_pat_..." --map-id "aBcDe"`,
	RunE: runAuthSet,
}

// Flags for auth set.
var (
	authStoreKey    string
	authStoreBase   string
	authStoreTable  string
	authTunnelToken string
	authMapKey      string
	authMapID       string
)

func init() {
	authSetCmd.Flags().StringVar(&authStoreKey, "store-key", "", "record store API key")
	authSetCmd.Flags().StringVar(&authStoreBase, "store-base", "", "record store dataset id")
	authSetCmd.Flags().StringVar(&authStoreTable, "store-table", "", "record store table name")
	authSetCmd.Flags().StringVar(&authTunnelToken, "tunnel-token", "", "tunnel relay auth token")
	authSetCmd.Flags().StringVar(&authMapKey, "map-key", "", "map platform API key")
	authSetCmd.Flags().StringVar(&authMapID, "map-id", "", "map id carrying the layer")

	authCmd.AddCommand(authSetCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthSet(cmd *cobra.Command, _ []string) error {
	interactive := authStoreKey == "" && authTunnelToken == "" && authMapKey == "" &&
		authStoreBase == "" && authStoreTable == "" && authMapID == ""

	if interactive {
		if err := promptCredentials(cmd); err != nil {
			return err
		}
	} else {
		applyFlag(&cfg.Store.APIKey, authStoreKey)
		applyFlag(&cfg.Store.BaseID, authStoreBase)
		applyFlag(&cfg.Store.Table, authStoreTable)
		applyFlag(&cfg.Tunnel.AuthToken, authTunnelToken)
		applyFlag(&cfg.Map.APIKey, authMapKey)
		applyFlag(&cfg.Map.MapID, authMapID)
	}

	if err := cfg.Save(flagConfig); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	cmd.Println("Credentials saved.")
	return nil
}

func promptCredentials(cmd *cobra.Command) error {
	secrets := []struct {
		label string
		dst   *string
	}{
		{"Record store API key", &cfg.Store.APIKey},
		{"Tunnel relay auth token", &cfg.Tunnel.AuthToken},
		{"Map platform API key", &cfg.Map.APIKey},
	}
	for _, s := range secrets {
		val, err := promptSecret(cmd, s.label, *s.dst != "")
		if err != nil {
			return err
		}
		applyFlag(s.dst, val)
	}

	plain := []struct {
		label string
		dst   *string
	}{
		{"Record store dataset id", &cfg.Store.BaseID},
		{"Record store table name", &cfg.Store.Table},
		{"Map id", &cfg.Map.MapID},
	}
	for _, p := range plain {
		cmd.Printf("%s [%s]: ", p.label, *p.dst)
		var val string
		fmt.Fscanln(cmd.InOrStdin(), &val) //nolint:errcheck // empty input keeps current value
		applyFlag(p.dst, strings.TrimSpace(val))
	}
	return nil
}

// promptSecret reads a secret without echoing it.
func promptSecret(cmd *cobra.Command, label string, isSet bool) (string, error) {
	hint := "unset"
	if isSet {
		hint = "set, enter to keep"
	}
	cmd.Printf("%s (%s): ", label, hint)

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}

func applyFlag(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
