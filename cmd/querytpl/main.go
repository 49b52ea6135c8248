package main

import (
	"fmt"
	"io"
	"os"

	"github.com/golobby/querytpl"
	"github.com/spf13/cobra"
)

type options struct {
	verbose  bool
	argsFile string
	dialect  string
	lenient  bool
	driver   string
	dsn      string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "querytpl",
		Short:         "Render SQL templates with typed placeholders and optional {fragments}",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVarP(&opts.argsFile, "args", "a", "", "YAML file with the argument sequence, - for stdin")
	root.PersistentFlags().StringVarP(&opts.dialect, "dialect", "d", "mysql", "Quoting dialect: mysql, postgres or sqlite3")
	root.PersistentFlags().BoolVar(&opts.lenient, "lenient", false, "Bind NULL to missing arguments instead of failing")

	buildCmd := &cobra.Command{
		Use:   "build TEMPLATE",
		Short: "Print the query built from TEMPLATE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, values, err := opts.prepare(cmd.InOrStdin())
			if err != nil {
				return err
			}
			q, err := b.BuildArgs(args[0], values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), q)
			return nil
		},
	}

	explainCmd := &cobra.Command{
		Use:   "explain TEMPLATE",
		Short: "Show how every placeholder of TEMPLATE resolves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, values, err := opts.prepare(cmd.InOrStdin())
			if err != nil {
				return err
			}
			q, res, err := b.ExplainArgs(args[0], values)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), querytpl.RenderExplain(res))
			fmt.Fprintln(cmd.OutOrStdout(), q)
			return nil
		},
	}

	execCmd := &cobra.Command{
		Use:   "exec TEMPLATE",
		Short: "Build TEMPLATE and execute it against a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, values, err := opts.prepare(cmd.InOrStdin())
			if err != nil {
				return err
			}
			db, err := querytpl.Open(querytpl.ConnectionConfig{
				Name:             "cli",
				Driver:           opts.driver,
				ConnectionString: opts.dsn,
				Dialect:          b.Dialect(),
				ArgCount:         opts.argCount(),
				Logger:           opts.logger(),
			})
			if err != nil {
				return err
			}
			defer db.Close()

			anyArgs := make([]any, len(values))
			for i, v := range values {
				anyArgs[i] = v
			}
			res, err := db.Exec(cmd.Context(), args[0], anyArgs...)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}
	execCmd.Flags().StringVar(&opts.driver, "driver", "mysql", "database/sql driver name")
	execCmd.Flags().StringVar(&opts.dsn, "dsn", "", "Connection string")
	execCmd.MarkFlagRequired("dsn")

	root.AddCommand(buildCmd, explainCmd, execCmd)
	return root
}

func (o *options) argCount() querytpl.ArgCountPolicy {
	if o.lenient {
		return querytpl.LenientArgCount
	}
	return querytpl.StrictArgCount
}

func (o *options) logger() querytpl.Logger {
	if !o.verbose {
		return nil
	}
	l, err := querytpl.NewLogger(querytpl.LogLevelDev)
	if err != nil {
		return nil
	}
	return l
}

func (o *options) prepare(stdin io.Reader) (*querytpl.Builder, []querytpl.Arg, error) {
	dialect, err := querytpl.DialectFor(o.dialect)
	if err != nil {
		return nil, nil, err
	}
	b, err := querytpl.New(querytpl.Config{
		Dialect:  dialect,
		ArgCount: o.argCount(),
		Logger:   o.logger(),
	})
	if err != nil {
		return nil, nil, err
	}
	if o.argsFile == "" {
		return b, nil, nil
	}
	var data []byte
	if o.argsFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(o.argsFile)
	}
	if err != nil {
		return nil, nil, err
	}
	values, err := querytpl.ArgsFromYAML(data)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", o.argsFile, err)
	}
	return b, values, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
