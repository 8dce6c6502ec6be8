package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"space-missions/services"
)

func (a *app) companyCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "company-count COMPANY",
		Short: "Number of missions launched by a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.queries.MissionCountByCompany(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (a *app) successRateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "success-rate COMPANY",
		Short: "Percentage of a company's missions that succeeded",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := a.queries.SuccessRate(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", rate)
			return nil
		},
	}
}

func (a *app) dateRangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "date-range START END",
		Short: "Missions launched between two YYYY-MM-DD dates, inclusive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.queries.MissionsByDateRange(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) topCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "top N",
		Short: "Companies with the most missions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			top, err := a.queries.TopCompaniesByMissionCount(cmd.Context(), intArg(args[0], 0))
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Company", "Missions"})
			table.SetAutoWrapText(false)
			for _, c := range top {
				table.Append([]string{c.Company, strconv.Itoa(c.Count)})
			}
			table.Render()
			return nil
		},
	}
}

func (a *app) statusCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status-count",
		Short: "Number of missions per mission status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := a.queries.MissionStatusCount(cmd.Context())
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Status", "Missions"})
			for _, status := range services.OrderedStatuses(counts) {
				table.Append([]string{status, strconv.Itoa(counts[status])})
			}
			table.Render()
			return nil
		},
	}
}

func (a *app) yearCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "year-count YEAR",
		Short: "Number of missions launched in a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				// Still load so that a broken dataset is reported.
				if _, err := a.queries.Table(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), 0)
				return nil
			}
			n, err := a.queries.MissionsByYear(cmd.Context(), year)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (a *app) mostUsedRocketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "most-used-rocket",
		Short: "Rocket used for the most missions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rocket, err := a.queries.MostUsedRocket(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rocket)
			return nil
		},
	}
}

func (a *app) averageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "average START_YEAR END_YEAR",
		Short: "Average missions per year over an inclusive year range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, errStart := strconv.Atoi(args[0])
			end, errEnd := strconv.Atoi(args[1])
			if errStart != nil || errEnd != nil {
				if _, err := a.queries.Table(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", 0.0)
				return nil
			}
			avg, err := a.queries.AverageMissionsPerYear(cmd.Context(), start, end)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", avg)
			return nil
		},
	}
}
