package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hatamisg/rutin/internal/model"
)

// completeHabits returns a completion function for habit SIDs.
func completeHabits(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	habits, ok := habitsForCompletion()
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, h := range habits {
		if strings.HasPrefix(h.SID, toComplete) {
			completions = append(completions, h.SID+"\t"+h.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeTimerHabits completes only timer habit SIDs.
func completeTimerHabits(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	habits, ok := habitsForCompletion()
	if !ok {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	for _, h := range habits {
		if h.Kind != model.KindTimer {
			continue
		}
		if strings.HasPrefix(h.SID, toComplete) {
			completions = append(completions, h.SID+"\t"+h.Name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeWebhooks provides completion for webhook names.
func completeWebhooks(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	if ctx == nil || ctx.WebhookRepo == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	webhooks, err := ctx.WebhookRepo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}

	var names []string
	for _, wh := range webhooks {
		if strings.HasPrefix(wh.Name, toComplete) {
			names = append(names, wh.Name)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp
}

func habitsForCompletion() ([]*model.Habit, bool) {
	if ctx == nil || ctx.HabitRepo == nil {
		return nil, false
	}
	habits, err := ctx.HabitRepo.List()
	if err != nil {
		return nil, false
	}
	return habits, true
}
