package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/intake/internal/action"
	"github.com/zulandar/intake/internal/config"
	"github.com/zulandar/intake/internal/db"
	"github.com/zulandar/intake/internal/store"
	"gorm.io/gorm"
)

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Action item management commands",
	}

	cmd.AddCommand(newActionListCmd())
	cmd.AddCommand(newActionShowCmd())
	cmd.AddCommand(newActionCreateCmd())
	cmd.AddCommand(newActionUpdateCmd())
	cmd.AddCommand(newActionDeleteCmd())
	return cmd
}

// payloadFlag maps a CLI flag onto a key of the JSON payload. An empty group
// means a top-level key.
type payloadFlag struct {
	name    string
	group   string
	key     string
	usage   string
	boolean bool
}

var payloadFlags = []payloadFlag{
	{name: "summary", key: "summary", usage: "one-line summary"},
	{name: "detail", key: "detail", usage: "longer description"},
	{name: "owner", key: "owner", usage: "responsible person"},
	{name: "role", key: "role", usage: "responsible role"},
	{name: "status", key: "status", usage: "Planned, In-Progress, Blocked, Deferred, Done or Cancelled"},
	{name: "priority", key: "priority", usage: "P1, P2 or P3"},
	{name: "due-at", key: "dueAt", usage: "due timestamp (RFC 3339 or YYYY-MM-DD, empty clears)"},
	{name: "started-at", key: "startedAt", usage: "start timestamp (empty clears)"},
	{name: "completed-at", key: "completedAt", usage: "completion timestamp (empty clears)"},
	{name: "risk", key: "risk", usage: "None, Low, Medium or High"},
	{name: "notes", key: "notes", usage: "free-form notes"},
	{name: "change-control", group: "changeControl", key: "required", usage: "change control is required", boolean: true},
	{name: "change-id", group: "changeControl", key: "id", usage: "change request ID"},
	{name: "rollback-plan", group: "changeControl", key: "rollbackPlan", usage: "rollback plan"},
	{name: "verify", group: "verification", key: "required", usage: "verification is required", boolean: true},
	{name: "verify-method", group: "verification", key: "method", usage: "verification method"},
	{name: "verify-evidence", group: "verification", key: "evidence", usage: "verification evidence"},
	{name: "verify-result", group: "verification", key: "result", usage: "Pass or Fail"},
	{name: "checked-by", group: "verification", key: "checkedBy", usage: "who verified"},
	{name: "checked-at", group: "verification", key: "checkedAt", usage: "when it was verified"},
	{name: "hypothesis", group: "links", key: "hypothesisId", usage: "linked hypothesis ID"},
	{name: "runbook", group: "links", key: "runbook", usage: "runbook reference"},
	{name: "ticket", group: "links", key: "ticket", usage: "ticket reference"},
	{name: "link-notes", group: "links", key: "notes", usage: "notes on the links"},
}

func addPayloadFlags(cmd *cobra.Command) {
	for _, f := range payloadFlags {
		if f.boolean {
			cmd.Flags().Bool(f.name, false, f.usage)
		} else {
			cmd.Flags().String(f.name, "", f.usage)
		}
	}
	cmd.Flags().StringSlice("depends-on", nil, "dependency IDs, replaces the whole list")
}

// buildPayload encodes only the flags the user set, so unset flags leave the
// stored fields untouched.
func buildPayload(cmd *cobra.Command) ([]byte, error) {
	payload := map[string]interface{}{}
	for _, f := range payloadFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		var v interface{}
		var err error
		if f.boolean {
			v, err = cmd.Flags().GetBool(f.name)
		} else {
			v, err = cmd.Flags().GetString(f.name)
		}
		if err != nil {
			return nil, err
		}
		if f.group == "" {
			payload[f.key] = v
			continue
		}
		nested, ok := payload[f.group].(map[string]interface{})
		if !ok {
			nested = map[string]interface{}{}
			payload[f.group] = nested
		}
		nested[f.key] = v
	}
	if cmd.Flags().Changed("depends-on") {
		deps, err := cmd.Flags().GetStringSlice("depends-on")
		if err != nil {
			return nil, err
		}
		payload["dependencies"] = deps
	}
	if cmd.Flags().Changed("created-by") {
		createdBy, err := cmd.Flags().GetString("created-by")
		if err != nil {
			return nil, err
		}
		payload["createdBy"] = createdBy
	}
	return json.Marshal(payload)
}

func newActionListCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "list <analysis-id>",
		Short: "List the action items of an analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := serviceFromConfig(configPath)
			if err != nil {
				return err
			}
			items, err := svc.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No action items found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSUMMARY\tSTATUS\tPRI\tOWNER\tDUE")
			for _, it := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					it.ID, truncate(it.Summary, 50), it.Status, it.Priority, dash(it.Owner), dash(it.DueAt))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "intake.yaml", "path to Intake config file")
	return cmd
}

func newActionShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <analysis-id> <id>",
		Short: "Show one action item as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := serviceFromConfig(configPath)
			if err != nil {
				return err
			}
			item, err := svc.Get(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printItem(cmd, item)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "intake.yaml", "path to Intake config file")
	return cmd
}

func newActionCreateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "create <analysis-id>",
		Short: "Create an action item",
		Long:  "Creates an action item under an analysis. The ID and creation time are assigned by the store.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := buildPayload(cmd)
			if err != nil {
				return err
			}
			svc, err := serviceFromConfig(configPath)
			if err != nil {
				return err
			}
			item, err := svc.Create(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created action %s: %s [%s, %s]\n", item.ID, item.Summary, item.Status, item.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "intake.yaml", "path to Intake config file")
	cmd.Flags().String("created-by", "", "creator (required)")
	addPayloadFlags(cmd)
	cmd.MarkFlagRequired("summary")
	cmd.MarkFlagRequired("created-by")
	return cmd
}

func newActionUpdateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "update <analysis-id> <id>",
		Short: "Update fields of an action item",
		Long: `Applies a partial update. Only the flags you pass are changed; passing an
empty string clears an optional field.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := buildPayload(cmd)
			if err != nil {
				return err
			}
			svc, err := serviceFromConfig(configPath)
			if err != nil {
				return err
			}
			item, err := svc.Update(cmd.Context(), args[0], args[1], payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated action %s [%s, %s]\n", item.ID, item.Status, item.Priority)
			if item.CompletedAt != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Completed at %s\n", item.CompletedAt)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "intake.yaml", "path to Intake config file")
	addPayloadFlags(cmd)
	return cmd
}

func newActionDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <analysis-id> <id>",
		Short: "Delete an action item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := serviceFromConfig(configPath)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted action %s\n", args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "intake.yaml", "path to Intake config file")
	return cmd
}

func printItem(cmd *cobra.Command, item *action.Item) error {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("encode action %s: %w", item.ID, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", describeStore(cfg.Database), err)
	}

	return cfg, gormDB, nil
}

func serviceFromConfig(configPath string) (*action.Service, error) {
	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return nil, err
	}
	return action.NewService(store.NewActions(gormDB)), nil
}

func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
