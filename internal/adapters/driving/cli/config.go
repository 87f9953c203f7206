package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quill-editor/quill/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `Reads and writes config.toml in the application directory
(~/.quill, or $QUILL_HOME).

Keys:
  remote.api_path             REST API path appended to the site URL
  remote.timeout_seconds      Request timeout
  remote.requests_per_second  Client-side rate limit
  remote.max_response_bytes   Largest accepted response body
  sync.per_page               Page size for remote listings (1-100)
  goals.daily_words           Daily word goal, 0 to disable
  secrets.backend             Where secrets are kept: file or keychain
  log.verbose                 Print debug and info logs`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every setting",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Restore one setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	rows := make([][]string, 0, len(domain.SettingKeys))
	for _, key := range domain.SettingKeys {
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to get %s: %w", key, err)
		}
		rows = append(rows, []string{key, value})
	}
	cmd.Println(newTable("KEY", "VALUE").Rows(rows...).String())
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], value)
	if args[0] == domain.KeySecretsBackend {
		cmd.Println("Reconnect the site to move its secret to the new backend.")
	}
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to unset %s: %w", args[0], err)
	}

	value, err := settingsService.Value(args[0])
	if err != nil {
		return err
	}
	cmd.Printf("%s = %s (default)\n", args[0], value)
	return nil
}
