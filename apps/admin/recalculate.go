package main

import (
	"context"
	"fmt"
)

// recalculate rebuilds an event's leaderboard snapshot and prints the rankings.
func (cli *commandLine) recalculate(eventID string) error {
	entries, err := cli.lbSvc.Recalculate(context.Background(), eventID)
	if err != nil {
		return err
	}

	fmt.Printf("%-6s%-30s%s\n", "RANK", "TEAM", "TOTAL")
	for _, e := range entries {
		fmt.Printf("%-6d%-30s%.2f\n", e.Rank, e.TeamName, e.TotalScore)
	}
	return nil
}
