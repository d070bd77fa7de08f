package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/osoriof/plata/internal/model"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage classification rules",
	}

	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesAddCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List classification rules in precedence order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rules, err := store.AllRules(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "POS\tID\tPATTERN\tMATCH\tCOUNTERPARTY\tGROUP\tCONCEPT\tACTIVE")
			for _, rule := range rules {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
					rule.Position, rule.ID, rule.Pattern, rule.MatchType,
					formatID(rule.CounterpartyID), formatID(rule.GroupID), formatID(rule.ConceptID),
					rule.Active)
			}
			return w.Flush()
		},
	}
}

func rulesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add PATTERN",
		Short: "Add a classification rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matchType, _ := cmd.Flags().GetString("match")
			counterparty, _ := cmd.Flags().GetInt64("counterparty")
			group, _ := cmd.Flags().GetInt64("group")
			concept, _ := cmd.Flags().GetInt64("concept")

			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rule := model.ClassificationRule{
				Pattern:        args[0],
				MatchType:      model.MatchType(matchType),
				CounterpartyID: optionalID(counterparty),
				GroupID:        optionalID(group),
				ConceptID:      optionalID(concept),
				Active:         true,
			}

			if err := store.CreateRule(ctx, &rule); err != nil {
				return err
			}

			fmt.Printf("created rule %d at position %d\n", rule.ID, rule.Position)
			return nil
		},
	}

	cmd.Flags().String("match", string(model.MatchContains), "match type (exact, contains, starts_with)")
	cmd.Flags().Int64("counterparty", 0, "counterparty ID to assign")
	cmd.Flags().Int64("group", 0, "group ID to assign")
	cmd.Flags().Int64("concept", 0, "concept ID to assign")

	return cmd
}

func formatID(id *int64) string {
	if id == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *id)
}

func optionalID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}
