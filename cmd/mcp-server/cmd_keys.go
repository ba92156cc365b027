package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cybertodo/backend/internal/config"
	"github.com/cybertodo/backend/internal/keystore"
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage automation API keys",
}

var keysGenerateFlags struct {
	name   string
	userID string
}

var keysGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new API key",
	Long: `Generates a new API key and prints it once. Only the SHA-256 digest
is stored, so copy the key now or regenerate later.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKeystore(func(keys *keystore.Store) error {
			raw, err := keys.Generate(keysGenerateFlags.name, keysGenerateFlags.userID)
			if err != nil {
				return err
			}
			fmt.Printf("API key (shown once): %s\n", raw)
			return nil
		})
	},
}

var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored API keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withKeystore(func(keys *keystore.Store) error {
			records, err := keys.List()
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Println("No API keys stored.")
				return nil
			}
			for _, record := range records {
				state := "active"
				if !record.Active {
					state = "revoked"
				}
				lastUsed := "never"
				if record.LastUsed != nil {
					lastUsed = record.LastUsed.Format("2006-01-02 15:04:05")
				}
				fmt.Printf("%s  %-20s user=%-36s %s  last_used=%s\n",
					record.Hash[:12], record.Name, record.UserID, state, lastUsed)
			}
			return nil
		})
	},
}

var keysRevokeCmd = &cobra.Command{
	Use:   "revoke <hash-prefix>",
	Short: "Revoke an API key by digest prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := args[0]
		return withKeystore(func(keys *keystore.Store) error {
			records, err := keys.List()
			if err != nil {
				return err
			}
			for _, record := range records {
				if len(prefix) >= 8 && len(record.Hash) >= len(prefix) && record.Hash[:len(prefix)] == prefix {
					if err := keys.Revoke(record.Hash); err != nil {
						return err
					}
					fmt.Printf("Revoked key %s (%s)\n", record.Hash[:12], record.Name)
					return nil
				}
			}
			return fmt.Errorf("no key matches prefix %q (need at least 8 hex chars)", prefix)
		})
	},
}

func init() {
	keysGenerateCmd.Flags().StringVar(&keysGenerateFlags.name, "name", "unnamed key", "human-readable key name")
	keysGenerateCmd.Flags().StringVar(&keysGenerateFlags.userID, "user", "", "account id the key is bound to")

	keysCmd.AddCommand(keysGenerateCmd)
	keysCmd.AddCommand(keysListCmd)
	keysCmd.AddCommand(keysRevokeCmd)
}

func withKeystore(fn func(*keystore.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	keys, err := keystore.Open(cfg.Keystore.Path)
	if err != nil {
		return err
	}
	defer keys.Close()
	return fn(keys)
}
