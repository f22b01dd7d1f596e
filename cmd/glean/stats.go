package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/glean/internal/cli"
	"github.com/at-ishikawa/glean/internal/learning"
	"github.com/at-ishikawa/glean/internal/statistics"
)

type PeriodFlag statistics.Period

// Set implements pflag.Value.
func (p *PeriodFlag) Set(v string) error {
	period, err := statistics.ParsePeriod(v)
	if err != nil {
		return err
	}
	*p = PeriodFlag(period)
	return nil
}

// String implements pflag.Value.
func (p *PeriodFlag) String() string {
	if p == nil {
		return ""
	}
	return string(*p)
}

// Type implements pflag.Value.
func (p *PeriodFlag) Type() string {
	return "PeriodFlag"
}

var (
	_ pflag.Value = (*PeriodFlag)(nil)
)

func newStatsCommand() *cobra.Command {
	var topic string
	period := PeriodFlag(statistics.DefaultPeriod)

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show learning statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment()
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			items, err := env.repo.FindAll(cmd.Context(), learning.Filter{Topic: topic})
			if err != nil {
				return fmt.Errorf("repo.FindAll() > %w", err)
			}
			result := statistics.Calculate(items, env.clock.Now(), statistics.Period(period))
			return cli.WriteStatistics(cmd.OutOrStdout(), result)
		},
	}

	command.Flags().StringVar(&topic, "topic", "", "Only count items of this topic")
	command.Flags().Var(&period, "period", "Window for new items and reviews. Options: week, month, quarter, year")
	return command
}
