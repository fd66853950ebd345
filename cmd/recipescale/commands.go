package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"recipescale"
	"recipescale/config"
	recipemsgpack "recipescale/msgpack"
)

type cli struct {
	configPath string
	app        *app
}

func (c *cli) session() *recipescale.Session {
	return c.app.session
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func newRootCmd(c *cli, out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "recipescale",
		Short:         "Scale a batch recipe and keep a history of calculations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.app, err = newApp(cfg, errOut)
			return err
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to the YAML config file")

	root.AddCommand(
		newCalcCmd(c.session),
		newIngredientsCmd(c.session),
		newRecordsCmd(c.session),
		newExportCmd(c.session),
		newImportCmd(c.session),
	)
	return root
}

// run executes one command line and releases the session afterwards.
func run(args []string, out, errOut io.Writer) error {
	c := &cli{}
	defer c.close()
	root := newRootCmd(c, out, errOut)
	root.SetArgs(args)
	return root.Execute()
}

func newCalcCmd(session func() *recipescale.Session) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "calc <amount-kg>",
		Short: "Scale the ingredient list to the requested amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session()
			res, err := s.OnCalculate(args[0])
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), s, res)
			if !save {
				return nil
			}
			rec, err := s.OnSaveRecord()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved record %s (%s)\n", rec.ID, rec.Date)
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "save the result to the history")
	return cmd
}

func newIngredientsCmd(session func() *recipescale.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingredients",
		Aliases: []string{"ing"},
		Short:   "Show or edit the reference ingredient list",
		RunE: func(cmd *cobra.Command, args []string) error {
			printIngredients(cmd.OutOrStdout(), session())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List reference quantities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printIngredients(cmd.OutOrStdout(), session())
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <name> <quantity-kg>",
		Short: "Set the reference quantity of an ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session().OnIngredientEdit(args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
			return nil
		},
	}

	var container bool
	add := &cobra.Command{
		Use:   "add <name> <quantity-kg>",
		Short: "Add a new ingredient",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := recipescale.KindMass
			if container {
				kind = recipescale.KindContainer
			}
			if err := session().OnAddIngredient(args[0], args[1], kind); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", strings.TrimSpace(args[0]))
			return nil
		},
	}
	add.Flags().BoolVar(&container, "container", false, "measure the scaled amount in containers")

	rm := &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove"},
		Short:   "Remove an ingredient",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := session().OnRemoveIngredient(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s not in the list\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in ingredient list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := session().OnResetIngredients(); err != nil {
				return err
			}
			printIngredients(cmd.OutOrStdout(), session())
			return nil
		},
	}

	cmd.AddCommand(list, set, add, rm, reset)
	return cmd
}

func newRecordsCmd(session func() *recipescale.Session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Show or delete saved calculations",
		RunE: func(cmd *cobra.Command, args []string) error {
			printRecords(cmd.OutOrStdout(), session().Records())
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved calculations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printRecords(cmd.OutOrStdout(), session().Records())
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session()
			for _, rec := range s.Records() {
				if rec.ID == args[0] {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %v kg\n", rec.ID, rec.Date, rec.Amount)
					printResult(cmd.OutOrStdout(), s, rec.Result())
					return nil
				}
			}
			return fmt.Errorf("record %s not found", args[0])
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved calculation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := session().OnDeleteRecord(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "record %s not found\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func newExportCmd(session func() *recipescale.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the ingredient list and history to a msgpack archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := session()
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			records := s.Records()
			if err := recipemsgpack.WriteArchive(f, s.Ingredients(), records, time.Now()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", len(records), args[0])
			return nil
		},
	}
}

func newImportCmd(session func() *recipescale.Session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load an archive: replace the ingredient list, add unknown records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			archive, err := recipemsgpack.ReadArchive(f)
			if err != nil {
				return err
			}
			added, err := session().Import(archive.Ingredients, archive.Records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d ingredients and %d new records\n", archive.Ingredients.Len(), added)
			return nil
		},
	}
}

func printResult(w io.Writer, s *recipescale.Session, res recipescale.CalculationResult) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "INGREDIENT\tTOTAL\tPER VESSEL\n")
	for _, row := range s.Rows(res) {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Name, row.Total, row.PerVessel)
	}
	_ = tw.Flush()
}

func printIngredients(w io.Writer, s *recipescale.Session) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "INGREDIENT\tKG\tKIND\n")
	ings := s.Ingredients()
	for _, it := range ings.All() {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\n", it.Name, it.Quantity, it.Kind)
	}
	_ = tw.Flush()
}

func printRecords(w io.Writer, records []recipescale.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, "no saved records")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tDATE\tAMOUNT (KG)\n")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%v\n", rec.ID, rec.Date, rec.Amount)
	}
	_ = tw.Flush()
}
