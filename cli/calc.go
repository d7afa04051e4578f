package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"loan-amortizer/domain"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

type loanFlags struct {
	principal float64
	rate      float64
	term      uint32
	output    string
}

func (f *loanFlags) register(c *cobra.Command) {
	c.Flags().Float64VarP(&f.principal, "principal", "p", 0, "Amount borrowed (required)")
	c.Flags().Float64VarP(&f.rate, "rate", "r", 0, "Annual interest rate in percent, e.g. 5 for 5%")
	c.Flags().Uint32VarP(&f.term, "term", "t", 0, "Term in years (required)")
	c.Flags().StringVarP(&f.output, "output", "o", outputTable, "Output format: table or json")

	_ = c.MarkFlagRequired("principal")
	_ = c.MarkFlagRequired("term")
}

func (f *loanFlags) validateOutput() error {
	switch f.output {
	case outputTable, outputJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want %s or %s)", f.output, outputTable, outputJSON)
}

func paymentCmd() *cobra.Command {
	var flags loanFlags

	c := &cobra.Command{
		Use:   "payment",
		Short: "Print the level yearly payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validateOutput(); err != nil {
				return err
			}

			payment, err := domain.ComputeYearlyPayment(flags.principal, flags.rate, flags.term)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.output == outputJSON {
				return json.NewEncoder(out).Encode(map[string]float64{"yearly_payment": payment})
			}
			_, err = fmt.Fprintf(out, "Yearly payment: %.2f\n", payment)
			return err
		},
	}

	flags.register(c)
	return c
}

func scheduleCmd() *cobra.Command {
	var flags loanFlags

	c := &cobra.Command{
		Use:   "schedule",
		Short: "Print the year-by-year amortization schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := flags.validateOutput(); err != nil {
				return err
			}

			schedule, err := domain.ComputeAmortizationSchedule(flags.principal, flags.rate, flags.term)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if flags.output == outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(schedule)
			}
			_, err = fmt.Fprintln(out, renderSchedule(schedule))
			return err
		},
	}

	flags.register(c)
	return c
}
