package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/notify"
	"github.com/hatamisg/rutin/internal/validate"
)

var (
	webhookAddFlagType     string
	webhookRemoveFlagForce bool
	webhookTestFlagAll     bool
)

const webhookTestTimeout = 30 * time.Second

var webhookCmd = &cobra.Command{
	Use:     "webhook [command]",
	Aliases: []string{"wh", "hook"},
	Short:   "Configure refresh webhooks",
	Long: `Configure webhooks that receive refresh pings whenever progress
changes and the snapshot is republished. External renderers (widgets,
dashboards) use them to know when to re-read the snapshot; Discord
webhooks also receive streak-risk warnings from the daemon.

Pings are delivered at least once, so receivers must treat them as
idempotent and recompute from the snapshot rather than from the ping.

Examples:
  rutin webhook add discord https://discord.com/api/webhooks/...
  rutin webhook add widget http://localhost:9090/refresh
  rutin webhook list
  rutin webhook test discord
  rutin webhook disable widget
  rutin webhook remove discord`,
	RunE: runWebhookList,
}

var webhookAddCmd = &cobra.Command{
	Use:   "add NAME URL",
	Short: "Add a new webhook",
	Long: `Add a webhook for receiving refresh pings.

The webhook type is auto-detected from the URL:
  - Discord: discord.com/api/webhooks/...
  - Generic: Any other URL

Examples:
  rutin webhook add discord https://discord.com/api/webhooks/123/abc
  rutin webhook add widget http://localhost:9090/refresh --type generic`,
	Args: cobra.ExactArgs(2),
	RunE: runWebhookAdd,
}

var webhookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all webhooks",
	RunE:  runWebhookList,
}

var webhookTestCmd = &cobra.Command{
	Use:   "test [NAME]",
	Short: "Test a webhook by sending a test notification",
	Long: `Send a test notification to verify webhook configuration.

Examples:
  rutin webhook test discord
  rutin webhook test --all`,
	RunE: runWebhookTest,
}

var webhookRemoveCmd = &cobra.Command{
	Use:     "remove NAME",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a webhook",
	Args:    cobra.ExactArgs(1),
	RunE:    runWebhookRemove,
}

var webhookEnableCmd = &cobra.Command{
	Use:   "enable NAME",
	Short: "Enable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setWebhookEnabled(args[0], true)
	},
}

var webhookDisableCmd = &cobra.Command{
	Use:   "disable NAME",
	Short: "Disable a webhook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setWebhookEnabled(args[0], false)
	},
}

func init() {
	webhookAddCmd.Flags().StringVarP(&webhookAddFlagType, "type", "t", "",
		"Webhook type: discord, generic (auto-detected from URL if not specified)")
	webhookRemoveCmd.Flags().BoolVar(&webhookRemoveFlagForce, "force", false,
		"Skip confirmation")
	webhookTestCmd.Flags().BoolVarP(&webhookTestFlagAll, "all", "a", false,
		"Test all enabled webhooks")

	for _, sub := range []*cobra.Command{webhookTestCmd, webhookRemoveCmd, webhookEnableCmd, webhookDisableCmd} {
		sub.ValidArgsFunction = completeWebhooks
	}
	webhookCmd.AddCommand(webhookAddCmd, webhookListCmd, webhookTestCmd,
		webhookRemoveCmd, webhookEnableCmd, webhookDisableCmd)

	rootCmd.AddCommand(webhookCmd)
}

// webhookStatusOutput is the JSON shape for single-webhook state changes.
type webhookStatusOutput struct {
	Status  string `json:"status"`
	Webhook string `json:"webhook"`
}

func runWebhookAdd(cmd *cobra.Command, args []string) error {
	name, rawURL := args[0], args[1]

	if !model.IsValidWebhookName(name) {
		return errors.NewUserErrorWithField("name", name,
			"invalid webhook name", "use alphanumeric with dash/underscore, max 50 chars")
	}
	if err := validate.URL(rawURL); err != nil {
		return err
	}

	switch exists, err := ctx.WebhookRepo.Exists(name); {
	case err != nil:
		return err
	case exists:
		return fmt.Errorf("webhook %q already exists", name)
	}

	whType := webhookAddFlagType
	if whType == "" {
		whType = model.DetectWebhookType(rawURL)
	}
	if !model.IsValidWebhookType(whType) {
		return errors.NewUserErrorWithField("type", whType,
			"invalid webhook type", "use discord or generic")
	}

	wh := model.NewWebhook(name, whType, rawURL, ctx.Calendar.Now())
	if err := ctx.WebhookRepo.Create(wh); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Name      string    `json:"name"`
			Type      string    `json:"type"`
			URL       string    `json:"url"`
			Enabled   bool      `json:"enabled"`
			CreatedAt time.Time `json:"created_at"`
		}{wh.Name, wh.Type, wh.MaskedURL(), wh.Enabled, wh.CreatedAt})
	}

	cli := ctx.CLIFormatter()
	cli.Success(fmt.Sprintf("Added webhook: %s", name))
	ctx.Formatter.Printf("  Type: %s\n  URL: %s\n  Status: enabled\n", wh.Type, wh.MaskedURL())
	cli.Muted(fmt.Sprintf("\nTest with: rutin webhook test %s", name))
	return nil
}

func runWebhookList(cmd *cobra.Command, args []string) error {
	webhooks, err := ctx.WebhookRepo.List()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Webhooks []*model.Webhook `json:"webhooks"`
			Count    int              `json:"count"`
		}{webhooks, len(webhooks)})
	}

	if len(webhooks) == 0 {
		ctx.Formatter.Println("No webhooks configured.")
		ctx.Formatter.Println()
		ctx.Formatter.Println("Add one with: rutin webhook add NAME <url>")
		return nil
	}

	ctx.CLIFormatter().Title("Configured Webhooks")
	ctx.Formatter.Printf("  %-12s %-10s %-10s %s\n", "Name", "Type", "Status", "Last Used")
	ctx.Formatter.Println("  " + strings.Repeat("-", 50))
	for _, wh := range webhooks {
		status := "enabled"
		if !wh.Enabled {
			status = "disabled"
		}
		lastUsed := "never"
		if !wh.LastUsed.IsZero() {
			lastUsed = formatTimeAgo(wh.LastUsed)
		}
		ctx.Formatter.Printf("  %-12s %-10s %-10s %s\n", wh.Name, wh.Type, status, lastUsed)
	}
	ctx.Formatter.Printf("\n%d webhooks\n", len(webhooks))
	return nil
}

func runWebhookTest(cmd *cobra.Command, args []string) error {
	dispatcher := notify.NewDispatcher(ctx.WebhookRepo)
	c, cancel := context.WithTimeout(context.Background(), webhookTestTimeout)
	defer cancel()

	if webhookTestFlagAll {
		return testAllWebhooks(c, dispatcher)
	}
	if len(args) == 0 {
		return fmt.Errorf("webhook name required (or use --all)")
	}
	name := args[0]

	if ctx.IsCLI() {
		ctx.Formatter.Printf("Testing webhook: %s\n", name)
	}
	result := dispatcher.TestWebhook(c, name)

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Webhook    string `json:"webhook"`
			Success    bool   `json:"success"`
			StatusCode int    `json:"status_code"`
			DurationMS int64  `json:"duration_ms"`
			Error      string `json:"error,omitempty"`
		}{name, result.Success, result.StatusCode, result.Duration.Milliseconds(), errorString(result.Error)})
	}

	cli := ctx.CLIFormatter()
	if result.Success {
		cli.Success(fmt.Sprintf("Message delivered in %dms", result.Duration.Milliseconds()))
		cli.Muted("Check your notification channel for the test message.")
	} else {
		cli.Error(fmt.Sprintf("Failed: %s", result.Error))
		cli.Muted("The webhook URL may be invalid or the service may be unavailable.")
	}
	return nil
}

func testAllWebhooks(c context.Context, dispatcher *notify.Dispatcher) error {
	webhooks, err := ctx.WebhookRepo.ListEnabled()
	if err != nil {
		return err
	}
	if len(webhooks) == 0 {
		return fmt.Errorf("no enabled webhooks to test")
	}

	results := make([]notify.DispatchResult, 0, len(webhooks))
	for _, wh := range webhooks {
		results = append(results, dispatcher.TestWebhook(c, wh.Name))
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(struct {
			Results []notify.DispatchResult `json:"results"`
		}{results})
	}
	for _, r := range results {
		if r.Success {
			ctx.Formatter.Printf("✓ %s: Success (%dms)\n", r.WebhookName, r.Duration.Milliseconds())
		} else {
			ctx.Formatter.Printf("✗ %s: Failed - %s\n", r.WebhookName, r.Error)
		}
	}
	return nil
}

func runWebhookRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	switch exists, err := ctx.WebhookRepo.Exists(name); {
	case err != nil:
		return err
	case !exists:
		return errors.ErrWebhookNotFound
	}

	if !webhookRemoveFlagForce && !ctx.IsJSON() {
		ctx.Formatter.Printf("Remove webhook %q? [y/N] ", name)
		var response string
		fmt.Scanln(&response)
		if !strings.EqualFold(response, "y") {
			ctx.Formatter.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.WebhookRepo.Delete(name); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(webhookStatusOutput{Status: "removed", Webhook: name})
	}
	ctx.Formatter.Printf("Removed webhook: %s\n", name)
	return nil
}

func setWebhookEnabled(name string, enabled bool) error {
	var err error
	if enabled {
		err = ctx.WebhookRepo.Enable(name)
	} else {
		err = ctx.WebhookRepo.Disable(name)
	}
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(webhookStatusOutput{Status: enabledString(enabled), Webhook: name})
	}
	if enabled {
		ctx.Formatter.Printf("Enabled webhook: %s\n", name)
	} else {
		ctx.Formatter.Printf("Disabled webhook: %s\n", name)
	}
	return nil
}

// formatTimeAgo renders a past instant as a rough relative age.
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
