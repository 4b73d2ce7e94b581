package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/horockey/rxprefs/internal/controller/http_controller/dto"
	"github.com/horockey/rxprefs/internal/gateway/remote_prefs"
	"github.com/horockey/rxprefs/internal/gateway/remote_prefs/http_remote_prefs"
	"github.com/horockey/rxprefs/internal/model"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func newGateway(cmd *cobra.Command) (remote_prefs.Gateway, error) {
	url, _ := cmd.Flags().GetString("url")
	apiKey, _ := cmd.Flags().GetString("api-key")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	return http_remote_prefs.New(
		url,
		apiKey,
		timeout,
		logger.With().Str("subscope", "gateway").Logger(),
	), nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var lsCmd = &cobra.Command{
	Use:   "ls [namespace]",
	Short: "List namespaces, or entries of a namespace",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			names, err := gw.Namespaces(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing namespaces: %w", err)
			}
			return printJSON(names)
		}

		entries, err := gw.GetAll(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("listing entries: %w", err)
		}
		return printJSON(lo.Map(entries, func(e model.Entry, _ int) dto.Entry {
			return dto.NewEntry(e)
		}))
	},
}

var getCmd = &cobra.Command{
	Use:   "get <namespace> <key>",
	Short: "Print a stored entry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd)
		if err != nil {
			return err
		}

		e, err := gw.Get(cmd.Context(), args[0], args[1])
		if errors.As(err, &model.KeyNotFoundError{}) {
			fmt.Fprintf(os.Stderr, "%s/%s is not set, readers use its default\n", args[0], args[1])
			return nil
		}
		if err != nil {
			return fmt.Errorf("getting entry: %w", err)
		}

		return printJSON(dto.NewEntry(e))
	},
}

var setCmd = &cobra.Command{
	Use:   "set <namespace> <key> <value>",
	Short: "Store an entry",
	Long: `Store an entry.

Examples:
  prefsd set theme_preferences theme_mode dark
  prefsd set backup_settings backup_retention_count 10 --kind int32`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindStr, _ := cmd.Flags().GetString("kind")

		kind, err := model.ParseKind(kindStr)
		if err != nil {
			return err
		}
		if err := kind.Validate(args[2]); err != nil {
			return err
		}

		gw, err := newGateway(cmd)
		if err != nil {
			return err
		}

		if err := gw.Put(cmd.Context(), args[0], model.Entry{
			Key:  args[1],
			Kind: kind,
			Raw:  args[2],
		}); err != nil {
			return fmt.Errorf("putting entry: %w", err)
		}
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <namespace> <key>",
	Short: "Remove an entry, so readers fall back to the default",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gw, err := newGateway(cmd)
		if err != nil {
			return err
		}

		if err := gw.Remove(cmd.Context(), args[0], args[1]); err != nil {
			return fmt.Errorf("removing entry: %w", err)
		}
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{lsCmd, getCmd, setCmd, rmCmd} {
		cmd.Flags().String("url", "http://127.0.0.1:7070", "admin api base url")
		cmd.Flags().Duration("timeout", 5*time.Second, "request timeout")
	}
	setCmd.Flags().String("kind", string(model.KindString), "value kind: bool, int32, int64, string")
}
