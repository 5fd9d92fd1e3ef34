package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"toggl-entries/internal/domain"
	"toggl-entries/internal/timerange"
)

func (c *cli) listCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List time entries",
		Long: `List time entries, optionally bounded by --from and --to.

Without bounds the Toggl default window applies. Bounds accept RFC3339,
YYYY-MM-DD (--to is inclusive of that day) or expressions like "yesterday".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			start, end, err := timerange.Bounds(from, to, now)
			if err != nil {
				return err
			}
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			entries, err := a.Entries().ListRange(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			return c.printEntries(cmd.OutOrStdout(), entries, now)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Start of the range")
	cmd.Flags().StringVar(&to, "to", "", "End of the range")
	return cmd
}

func (c *cli) currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the running time entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			entry, ok, err := a.Entries().Current(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				if c.json {
					return writeJSON(cmd.OutOrStdout(), nil)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No time entry is running")
				return nil
			}
			return c.printEntry(cmd.OutOrStdout(), entry, time.Now())
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a single time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			entry, err := a.Entries().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return c.printEntry(cmd.OutOrStdout(), entry, time.Now())
		},
	}
}

func (c *cli) startCmd() *cobra.Command {
	var (
		projectID int64
		tags      []string
	)
	cmd := &cobra.Command{
		Use:   "start DESCRIPTION",
		Short: "Start a new running time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			var project *domain.Project
			if projectID != 0 {
				cache := a.Entries().Cache()
				if err := cache.EnsureFilled(cmd.Context()); err != nil {
					return err
				}
				p, ok := cache.Project(projectID)
				if !ok {
					return &domain.MissingReferenceError{Kind: domain.KindProject, ID: projectID}
				}
				project = p
			}
			id, err := a.Entries().Start(cmd.Context(), args[0], tags, project)
			if err != nil {
				return err
			}
			if c.json {
				return writeJSON(cmd.OutOrStdout(), map[string]int64{"id": id})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started time entry %d\n", id)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&projectID, "project", "p", 0, "Project ID")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Tag (repeatable)")
	return cmd
}

func (c *cli) stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop [ID]",
		Short: "Stop a time entry, the running one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			var entry domain.TimeEntry
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if entry, err = a.Entries().Get(cmd.Context(), id); err != nil {
					return err
				}
			} else {
				var ok bool
				if entry, ok, err = a.Entries().Current(cmd.Context()); err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no time entry is running")
				}
			}
			if err := a.Entries().Stop(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stopped time entry %d\n", entry.ID)
			return nil
		},
	}
}

func (c *cli) updateCmd() *cobra.Command {
	var (
		description string
		tags        []string
		billable    bool
		duronly     bool
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("description") && !flags.Changed("tag") && !flags.Changed("billable") && !flags.Changed("duronly") {
				return fmt.Errorf("nothing to update")
			}
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			entry, err := a.Entries().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if flags.Changed("description") {
				entry.Description = description
			}
			if flags.Changed("tag") {
				entry.Tags = tags
			}
			if flags.Changed("billable") {
				entry.Billable = billable
			}
			if flags.Changed("duronly") {
				entry.DurOnly = duronly
			}
			if err := a.Entries().Update(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated time entry %d\n", entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "Replace tags (repeatable)")
	cmd.Flags().BoolVar(&billable, "billable", false, "Mark as billable")
	cmd.Flags().BoolVar(&duronly, "duronly", false, "Hide start and stop times")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a time entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			entry, err := a.Entries().Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := a.Entries().Delete(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted time entry %d\n", id)
			return nil
		},
	}
}

func (c *cli) projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects of every workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.application(cmd.Context(), false)
			if err != nil {
				return err
			}
			cache := a.Entries().Cache()
			if err := cache.EnsureFilled(cmd.Context()); err != nil {
				return err
			}
			return c.printProjects(cmd.OutOrStdout(), cache.Projects(), cache)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid time entry id %q", s)
	}
	return id, nil
}
