package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/toastui/internal/config"
	"github.com/jmylchreest/toastui/internal/dbus"
	"github.com/jmylchreest/toastui/internal/model"
)

var sendOpts struct {
	kind        string
	position    string
	description string
	body        string
	appName     string
	timeout     time.Duration
	replaces    uint32
}

var sendCmd = &cobra.Command{
	Use:   "send MESSAGE",
	Short: "Send a notification over D-Bus",
	Long: `Send a notification to the running notification daemon.

The toast kind, position and description travel as x-toast-* hints, which
toastd understands and other daemons ignore.

Examples:
  toastui send "Build finished"
  toastui send "Disk almost full" --kind warning --timeout 10s
  toastui send "Deploying" --timeout 0        # never expires
  toastui send "Deployed" --replaces 42`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendOpts.kind, "kind", "k", "",
		"Toast kind ("+strings.Join(kindNames(), ", ")+")")
	sendCmd.Flags().StringVarP(&sendOpts.position, "position", "p", "",
		"Toast position (top-left, top-center, top-right, center, bottom-left, bottom-center, bottom-right)")
	sendCmd.Flags().StringVarP(&sendOpts.description, "description", "d", "",
		"Secondary text shown under the message")
	sendCmd.Flags().StringVar(&sendOpts.body, "body", "",
		"Notification body for daemons without description support")
	sendCmd.Flags().StringVar(&sendOpts.appName, "app-name", "toastui",
		"Application name reported to the daemon")
	sendCmd.Flags().DurationVarP(&sendOpts.timeout, "timeout", "t", -1,
		"Auto-dismiss delay (0 never expires, negative uses the daemon default)")
	sendCmd.Flags().Uint32Var(&sendOpts.replaces, "replaces", 0,
		"Replace the notification with this id")
}

func kindNames() []string {
	kinds := model.ValidKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func runSend(cmd *cobra.Command, args []string) error {
	if sendOpts.kind != "" {
		if _, ok := model.ParseKind(sendOpts.kind); !ok {
			return fmt.Errorf("invalid kind %q, must be one of: %s", sendOpts.kind, strings.Join(kindNames(), ", "))
		}
	}
	if sendOpts.position != "" {
		if _, ok := config.ParsePosition(sendOpts.position); !ok {
			return fmt.Errorf("invalid position %q, must be one of: %v", sendOpts.position, config.ValidPositions())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := dbus.NewClient()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	id, err := client.Notify(ctx, dbus.Message{
		AppName:     sendOpts.appName,
		ReplacesID:  sendOpts.replaces,
		Summary:     args[0],
		Body:        sendOpts.body,
		Kind:        sendOpts.kind,
		Position:    sendOpts.position,
		Description: sendOpts.description,
		Timeout:     sendOpts.timeout,
	})
	if err != nil {
		return err
	}

	logger.Debug("notification sent", "id", id)
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
