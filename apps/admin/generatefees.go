package main

import (
	"fmt"
	"time"
)

func (cli *commandLine) generateFees(year int, month time.Month) error {
	count, err := cli.billingSvc.GenerateMonthlyFees(cli.operator(), year, month)
	if err != nil {
		return err
	}
	fmt.Printf("generated %d fee record(s) for %s %d\n", count, month, year)
	return nil
}
